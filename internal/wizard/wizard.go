// Package wizard implements the two-step pre-booking session: pick a
// product, fill in contact details, submit the lead.
package wizard

import (
	"context"
	"strings"
	"sync"

	"github.com/unicornstore/prebook/internal/catalog"
	"github.com/unicornstore/prebook/internal/domain"
	"github.com/unicornstore/prebook/internal/leadclient"
	"github.com/unicornstore/prebook/pkg/errors"
)

const (
	phoneDigits   = 10
	pincodeDigits = 6
)

// Catalog is the slice of the product catalog a wizard validates against
type Catalog interface {
	ProductByModel(model string) (domain.Product, bool)
	StorageOptions(model string) []string
	FinishOptions(model, storage string) []string
	SizeOptions(model string) []string
	ColorOptions(model, size string) []string
	Resolve(category domain.Category, model, storageOrSize, finishOrColor string) (domain.Variant, bool)
}

// Submitter sends a completed session to the lead proxy
type Submitter interface {
	SubmitLead(ctx context.Context, sel domain.Selection, contact domain.ContactDetails, attr domain.Attribution) (*leadclient.Result, error)
}

// ContactField names an editable contact detail
type ContactField string

const (
	FieldFirstName         ContactField = "firstName"
	FieldLastName          ContactField = "lastName"
	FieldEmail             ContactField = "email"
	FieldPhone             ContactField = "phone"
	FieldAddress           ContactField = "address"
	FieldCity              ContactField = "city"
	FieldPincode           ContactField = "pincode"
	FieldExpectedVisitDate ContactField = "expectedVisitDate"
)

// Wizard owns the state of one pre-booking session. All methods are safe
// to call from multiple goroutines; Submit holds the session in the
// Submitting step for the duration of the request.
type Wizard struct {
	mu       sync.Mutex
	catalog  Catalog
	step     domain.WizardStep
	sel      domain.Selection
	contact  domain.ContactDetails
	leadID   string
	errorMsg string
}

// New creates a wizard at the product step with nothing selected
func New(c Catalog) *Wizard {
	return &Wizard{
		catalog: c,
		step:    domain.WizardStepProduct,
	}
}

// Step returns the current step
func (w *Wizard) Step() domain.WizardStep {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Selection returns a copy of the product selection
func (w *Wizard) Selection() domain.Selection {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sel
}

// Contact returns a copy of the contact details
func (w *Wizard) Contact() domain.ContactDetails {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.contact
}

// LeadID is the id of the created lead after a successful submit
func (w *Wizard) LeadID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.leadID
}

// ErrorMessage is the failure shown after an unsuccessful submit
func (w *Wizard) ErrorMessage() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.errorMsg
}

// SelectCategory sets the category and clears everything below it
func (w *Wizard) SelectCategory(category domain.Category) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.requireStep(domain.WizardStepProduct); err != nil {
		return err
	}
	if category != "" && !category.IsValid() {
		return &errors.ErrInvalidSelection{Field: "category", Value: string(category)}
	}
	w.sel = domain.Selection{Category: category}
	return nil
}

// SelectProduct sets the model and clears storage, size, finish and color
func (w *Wizard) SelectProduct(model string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.requireStep(domain.WizardStepProduct); err != nil {
		return err
	}
	if model != "" {
		p, ok := w.catalog.ProductByModel(model)
		if !ok || w.sel.Category == "" || p.Category != w.sel.Category {
			return &errors.ErrInvalidSelection{Field: "product", Value: model}
		}
		model = p.Model
	}
	w.sel = domain.Selection{Category: w.sel.Category, Product: model}
	return nil
}

// SelectStorage sets the storage capacity and clears the finish
func (w *Wizard) SelectStorage(storage string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.requireStep(domain.WizardStepProduct); err != nil {
		return err
	}
	if !w.sel.Category.UsesStorage() {
		return &errors.ErrInvalidSelection{Field: "storage", Value: storage}
	}
	value, ok := match(storage, w.catalog.StorageOptions(w.sel.Product), catalog.NormalizeMeasure)
	if !ok {
		return &errors.ErrInvalidSelection{Field: "storage", Value: storage}
	}
	w.sel.Storage = value
	w.sel.Finish = ""
	return nil
}

// SelectSize sets the watch case size and clears the color
func (w *Wizard) SelectSize(size string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.requireStep(domain.WizardStepProduct); err != nil {
		return err
	}
	if !w.sel.Category.UsesSize() {
		return &errors.ErrInvalidSelection{Field: "size", Value: size}
	}
	value, ok := match(size, w.catalog.SizeOptions(w.sel.Product), catalog.NormalizeMeasure)
	if !ok {
		return &errors.ErrInvalidSelection{Field: "size", Value: size}
	}
	w.sel.Size = value
	w.sel.Color = ""
	return nil
}

// SelectFinish sets the finish of a storage-keyed product
func (w *Wizard) SelectFinish(finish string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.requireStep(domain.WizardStepProduct); err != nil {
		return err
	}
	if !w.sel.Category.UsesStorage() || (finish != "" && w.sel.Storage == "") {
		return &errors.ErrInvalidSelection{Field: "finish", Value: finish}
	}
	value, ok := match(finish, w.catalog.FinishOptions(w.sel.Product, w.sel.Storage), catalog.NormalizeColor)
	if !ok {
		return &errors.ErrInvalidSelection{Field: "finish", Value: finish}
	}
	w.sel.Finish = value
	return nil
}

// SelectColor sets the color of a watch or AirPods model
func (w *Wizard) SelectColor(color string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.requireStep(domain.WizardStepProduct); err != nil {
		return err
	}
	category := w.sel.Category
	if category == "" || category.UsesStorage() || (color != "" && category.UsesSize() && w.sel.Size == "") {
		return &errors.ErrInvalidSelection{Field: "color", Value: color}
	}
	value, ok := match(color, w.catalog.ColorOptions(w.sel.Product, w.sel.Size), catalog.NormalizeColor)
	if !ok {
		return &errors.ErrInvalidSelection{Field: "color", Value: color}
	}
	w.sel.Color = value
	return nil
}

// match maps input onto the offered spelling of one of options, so "256 gb"
// selects "256GB" from a storage menu. An empty input clears the field.
func match(input string, options []string, normalize func(string) string) (string, bool) {
	if strings.TrimSpace(input) == "" {
		return "", true
	}
	want := normalize(input)
	for _, opt := range options {
		if normalize(opt) == want {
			return opt, true
		}
	}
	return "", false
}

// SetContact edits one contact field. Phone and pincode keep digits only
// and are cut to 10 and 6 characters.
func (w *Wizard) SetContact(field ContactField, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step == domain.WizardStepSubmitting || w.step == domain.WizardStepSuccess {
		return &errors.ErrInvalidStateTransition{From: w.step, To: "edit " + string(field)}
	}

	switch field {
	case FieldFirstName:
		w.contact.FirstName = value
	case FieldLastName:
		w.contact.LastName = value
	case FieldEmail:
		w.contact.Email = value
	case FieldPhone:
		w.contact.Phone = digits(value, phoneDigits)
	case FieldAddress:
		w.contact.Address = value
	case FieldCity:
		w.contact.City = value
	case FieldPincode:
		w.contact.Pincode = digits(value, pincodeDigits)
	case FieldExpectedVisitDate:
		w.contact.ExpectedVisitDate = value
	default:
		return &errors.ErrInvalidSelection{Field: "contact field", Value: string(field)}
	}
	return nil
}

func digits(s string, limit int) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == limit {
				break
			}
		}
	}
	return b.String()
}

// CanContinueProduct reports whether the selection is complete enough to
// move on to the details step.
func (w *Wizard) CanContinueProduct() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.productComplete()
}

func (w *Wizard) productComplete() bool {
	s := w.sel
	if s.Category == "" || s.Product == "" {
		return false
	}
	switch s.Category.Dimension() {
	case domain.DimensionSize:
		return s.Size != "" && s.Color != ""
	case domain.DimensionNone:
		return s.Color != ""
	default:
		return s.Storage != "" && s.Finish != ""
	}
}

// Variant resolves the current selection against the catalog
func (w *Wizard) Variant() (domain.Variant, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := w.sel
	measure, finish := s.Storage, s.Finish
	if !s.Category.UsesStorage() {
		measure, finish = s.Size, s.Color
	}
	return w.catalog.Resolve(s.Category, s.Product, measure, finish)
}

// CanSubmit reports whether the contact details are complete
func (w *Wizard) CanSubmit() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.contactComplete()
}

func (w *Wizard) contactComplete() bool {
	c := w.contact
	return strings.TrimSpace(c.FirstName) != "" &&
		strings.TrimSpace(c.LastName) != "" &&
		strings.TrimSpace(c.Email) != "" &&
		len(c.Phone) >= phoneDigits
}

// ContinueToDetails moves from the product step to the details step
func (w *Wizard) ContinueToDetails() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.productComplete() {
		return &errors.ErrInvalidSelection{Field: "product", Value: w.sel.Product}
	}
	return w.transition(domain.WizardStepDetails)
}

// Back returns from the details step to the product step, keeping both the
// selection and the contact details.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.transition(domain.WizardStepProduct)
}

// Submit sends the session through s. The wizard stays in Submitting until
// s returns, and a concurrent Submit is rejected.
func (w *Wizard) Submit(ctx context.Context, s Submitter, attr domain.Attribution) error {
	w.mu.Lock()
	if !w.contactComplete() {
		w.mu.Unlock()
		return &errors.ErrValidation{Missing: w.missingContact()}
	}
	if err := w.transition(domain.WizardStepSubmitting); err != nil {
		w.mu.Unlock()
		return err
	}
	w.errorMsg = ""
	sel, contact := w.sel, w.contact
	w.mu.Unlock()

	res, err := s.SubmitLead(ctx, sel, contact, attr)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.step = domain.WizardStepFailed
		w.errorMsg = err.Error()
		if w.errorMsg == "" {
			w.errorMsg = "Failed to create lead. Please try again."
		}
		return err
	}
	w.step = domain.WizardStepSuccess
	w.leadID = res.LeadID
	return nil
}

func (w *Wizard) missingContact() []string {
	var missing []string
	if strings.TrimSpace(w.contact.FirstName) == "" {
		missing = append(missing, string(FieldFirstName))
	}
	if strings.TrimSpace(w.contact.LastName) == "" {
		missing = append(missing, string(FieldLastName))
	}
	if strings.TrimSpace(w.contact.Email) == "" {
		missing = append(missing, string(FieldEmail))
	}
	if len(w.contact.Phone) < phoneDigits {
		missing = append(missing, string(FieldPhone))
	}
	return missing
}

// Retry clears the failure and returns to the details step with all
// entered data intact.
func (w *Wizard) Retry() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.transition(domain.WizardStepDetails); err != nil {
		return err
	}
	w.errorMsg = ""
	return nil
}

// StartOver discards the session after a successful submit
func (w *Wizard) StartOver() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != domain.WizardStepSuccess {
		return &errors.ErrInvalidStateTransition{From: w.step, To: domain.WizardStepProduct}
	}
	w.step = domain.WizardStepProduct
	w.sel = domain.Selection{}
	w.contact = domain.ContactDetails{}
	w.leadID = ""
	w.errorMsg = ""
	return nil
}

func (w *Wizard) transition(next domain.WizardStep) error {
	if !w.step.CanTransitionTo(next) {
		return &errors.ErrInvalidStateTransition{From: w.step, To: next}
	}
	w.step = next
	return nil
}

func (w *Wizard) requireStep(step domain.WizardStep) error {
	if w.step != step {
		return &errors.ErrInvalidStateTransition{From: w.step, To: step}
	}
	return nil
}
