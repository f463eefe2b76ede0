package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/unicornstore/prebook/internal/catalog"
	"github.com/unicornstore/prebook/internal/domain"
)

func main() {
	if len(os.Args) != 2 && len(os.Args) != 5 {
		fmt.Println("Usage: go run cmd/find-variant/main.go <search>")
		fmt.Println("       go run cmd/find-variant/main.go <category> <model> <storage|size> <finish|color>")
		fmt.Println("Example: go run cmd/find-variant/main.go iphone \"iPhone 17 Pro\" 256GB \"Blue Titanium\"")
		os.Exit(1)
	}

	c, err := catalog.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load catalog: %v\n", err)
		os.Exit(1)
	}

	if len(os.Args) == 2 {
		search(c, os.Args[1])
		return
	}

	category, ok := domain.ParseCategory(os.Args[1])
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown category: %s\n", os.Args[1])
		os.Exit(1)
	}

	fmt.Printf("🔍 Resolving %s %s %s %s\n\n", category.Label(), os.Args[2], os.Args[3], os.Args[4])

	v, ok := c.Resolve(category, os.Args[2], os.Args[3], os.Args[4])
	if !ok {
		fmt.Printf("❌ No variant matches that selection\n")
		if p, found := c.ProductByModel(os.Args[2]); found {
			printOptions(c, category, p.Model)
		}
		os.Exit(1)
	}

	quote := catalog.QuoteFor(v)
	fmt.Printf("✅ Found variant!\n\n")
	fmt.Printf("Item:   %s\n", v.ItemName)
	fmt.Printf("Price:  %s\n", quote.FormattedPrice)
	fmt.Printf("MRP:    %s\n", quote.FormattedMRP)
	if quote.ShowDiscount {
		fmt.Printf("Save:   %s\n", catalog.FormatINR(quote.Discount))
	}

	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Printf("\nVariant:\n%s\n", out)
}

func search(c *catalog.Catalog, query string) {
	fmt.Printf("🔍 Searching for: %s\n\n", query)

	products := c.Search(query)
	if len(products) == 0 {
		fmt.Printf("❌ No products found\n")
		os.Exit(1)
	}

	for _, p := range products {
		fmt.Printf("%s (%s) - %s, %d variants\n", p.Model, p.ProductCode, p.Category.Label(), len(p.Variants))
		for _, v := range p.Variants {
			fmt.Printf("   %-40s %s\n", v.ItemName, catalog.FormatINR(v.DisplayPrice()))
		}
	}
}

func printOptions(c *catalog.Catalog, category domain.Category, model string) {
	fmt.Printf("\nAvailable for %s:\n", model)
	switch category.Dimension() {
	case domain.DimensionStorage:
		fmt.Printf("   Storage: %v\n", c.StorageOptions(model))
		fmt.Printf("   Finish:  %v\n", c.FinishOptions(model, ""))
	case domain.DimensionSize:
		fmt.Printf("   Size:  %v\n", c.SizeOptions(model))
		fmt.Printf("   Color: %v\n", c.ColorOptions(model, ""))
	default:
		fmt.Printf("   Color: %v\n", c.ColorOptions(model, ""))
	}
}
