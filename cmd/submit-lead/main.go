package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/unicornstore/prebook/internal/attribution"
	"github.com/unicornstore/prebook/internal/catalog"
	"github.com/unicornstore/prebook/internal/config"
	"github.com/unicornstore/prebook/internal/domain"
	"github.com/unicornstore/prebook/internal/leadclient"
	"github.com/unicornstore/prebook/internal/wizard"
)

type options struct {
	category, model           string
	storage, size             string
	finish, color             string
	firstName, lastName       string
	email, phone              string
	address, city, pincode    string
	visitDate, landingPageURL string
}

func main() {
	var o options
	flag.StringVar(&o.category, "category", "", "iphone, ipad, macbook, watch or airpods")
	flag.StringVar(&o.model, "model", "", "model name, e.g. \"iPhone 17 Pro\"")
	flag.StringVar(&o.storage, "storage", "", "storage capacity (iPhone, iPad, MacBook)")
	flag.StringVar(&o.size, "size", "", "case size (Watch)")
	flag.StringVar(&o.finish, "finish", "", "finish (iPhone, iPad, MacBook)")
	flag.StringVar(&o.color, "color", "", "color (Watch, AirPods)")
	flag.StringVar(&o.firstName, "first-name", "", "customer first name")
	flag.StringVar(&o.lastName, "last-name", "", "customer last name")
	flag.StringVar(&o.email, "email", "", "customer email")
	flag.StringVar(&o.phone, "phone", "", "10 digit mobile number")
	flag.StringVar(&o.address, "address", "", "street address")
	flag.StringVar(&o.city, "city", "", "city")
	flag.StringVar(&o.pincode, "pincode", "", "6 digit pincode")
	flag.StringVar(&o.visitDate, "visit-date", "", "expected store visit (YYYY-MM-DD)")
	flag.StringVar(&o.landingPageURL, "url", "", "landing page URL carrying utm_* parameters")
	flag.Parse()

	if o.category == "" || o.model == "" {
		fmt.Println("Usage: go run cmd/submit-lead/main.go -category <category> -model <model> [options]")
		fmt.Println("Example: go run cmd/submit-lead/main.go -category iphone -model \"iPhone 17 Pro\" -storage 256GB \\")
		fmt.Println("    -finish \"Blue Titanium\" -first-name John -last-name Doe -email j@d.com -phone 9876543210")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	attr, err := attribution.FromURL(o.landingPageURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid landing page URL: %v\n", err)
		os.Exit(1)
	}

	products, err := catalog.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load catalog: %v\n", err)
		os.Exit(1)
	}

	w := wizard.New(products)
	if err := fillWizard(w, o); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	if v, ok := w.Variant(); ok {
		fmt.Printf("Selected: %s at %s\n", v.ItemName, catalog.FormatINR(v.DisplayPrice()))
	}
	fmt.Printf("Item name sent to CRM: %s\n\n", leadclient.BuildItemName(w.Selection()))

	client := leadclient.New(cfg.APIURL, cfg.Timeout, logger)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout+5*time.Second)
	defer cancel()

	if err := w.Submit(ctx, client, attr); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v (step %s)\n", err, w.Step())
		os.Exit(1)
	}

	fmt.Printf("✅ Pre-booking submitted!\n\n")
	fmt.Printf("Lead ID: %s\n", w.LeadID())
	fmt.Printf("Visit date: %s\n", visitDateOrDefault(w.Contact().ExpectedVisitDate))
}

func fillWizard(w *wizard.Wizard, o options) error {
	category, ok := domain.ParseCategory(o.category)
	if !ok {
		return fmt.Errorf("unknown category %q", o.category)
	}

	steps := []func() error{
		func() error { return w.SelectCategory(category) },
		func() error { return w.SelectProduct(o.model) },
	}
	switch category.Dimension() {
	case domain.DimensionStorage:
		steps = append(steps,
			func() error { return w.SelectStorage(o.storage) },
			func() error { return w.SelectFinish(o.finish) },
		)
	case domain.DimensionSize:
		steps = append(steps,
			func() error { return w.SelectSize(o.size) },
			func() error { return w.SelectColor(o.color) },
		)
	default:
		steps = append(steps, func() error { return w.SelectColor(o.color) })
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	if err := w.ContinueToDetails(); err != nil {
		return fmt.Errorf("product selection incomplete: %w", err)
	}

	for field, value := range map[wizard.ContactField]string{
		wizard.FieldFirstName:         o.firstName,
		wizard.FieldLastName:          o.lastName,
		wizard.FieldEmail:             o.email,
		wizard.FieldPhone:             o.phone,
		wizard.FieldAddress:           o.address,
		wizard.FieldCity:              o.city,
		wizard.FieldPincode:           o.pincode,
		wizard.FieldExpectedVisitDate: o.visitDate,
	} {
		if err := w.SetContact(field, value); err != nil {
			return err
		}
	}
	return nil
}

func visitDateOrDefault(date string) string {
	if date == "" {
		return "in 7 days (server default)"
	}
	return date
}
