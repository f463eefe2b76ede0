package wizard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/unicornstore/prebook/internal/catalog"
	"github.com/unicornstore/prebook/internal/domain"
	"github.com/unicornstore/prebook/internal/leadclient"
	"github.com/unicornstore/prebook/pkg/errors"
)

type fakeSubmitter struct {
	result  *leadclient.Result
	err     error
	calls   int
	gotSel  domain.Selection
	gotAttr domain.Attribution
	started chan struct{}
	release chan struct{}
}

func (f *fakeSubmitter) SubmitLead(ctx context.Context, sel domain.Selection, contact domain.ContactDetails, attr domain.Attribution) (*leadclient.Result, error) {
	f.calls++
	f.gotSel = sel
	f.gotAttr = attr
	if f.started != nil {
		close(f.started)
		<-f.release
	}
	return f.result, f.err
}

func newWizard(t *testing.T) *Wizard {
	t.Helper()
	c, err := catalog.Load()
	require.NoError(t, err)
	return New(c)
}

func fillContact(t *testing.T, w *Wizard) {
	t.Helper()
	require.NoError(t, w.SetContact(FieldFirstName, "John"))
	require.NoError(t, w.SetContact(FieldLastName, "Doe"))
	require.NoError(t, w.SetContact(FieldEmail, "j@d.com"))
	require.NoError(t, w.SetContact(FieldPhone, "98765 43210"))
}

func readyForDetails(t *testing.T) *Wizard {
	t.Helper()
	w := newWizard(t)
	require.NoError(t, w.SelectCategory(domain.CategoryIPhone))
	require.NoError(t, w.SelectProduct("iPhone 17"))
	require.NoError(t, w.SelectStorage("256GB"))
	require.NoError(t, w.SelectFinish("black"))
	require.NoError(t, w.ContinueToDetails())
	return w
}

func TestWizard_StorageFlow(t *testing.T) {
	w := newWizard(t)
	assert.Equal(t, domain.WizardStepProduct, w.Step())
	assert.False(t, w.CanContinueProduct())

	require.NoError(t, w.SelectCategory(domain.CategoryIPhone))
	require.NoError(t, w.SelectProduct("iphone 17"))
	require.NoError(t, w.SelectStorage("256GB"))
	assert.False(t, w.CanContinueProduct())

	require.NoError(t, w.SelectFinish("BLACK"))
	assert.True(t, w.CanContinueProduct())

	sel := w.Selection()
	assert.Equal(t, "iPhone 17", sel.Product)
	assert.Equal(t, "256GB", sel.Storage)
	assert.Equal(t, "Black", sel.Finish)

	v, ok := w.Variant()
	require.True(t, ok)
	assert.Equal(t, int64(82900), v.MRP)
}

func TestWizard_CascadingResets(t *testing.T) {
	w := newWizard(t)
	require.NoError(t, w.SelectCategory(domain.CategoryIPhone))
	require.NoError(t, w.SelectProduct("iPhone 17"))
	require.NoError(t, w.SelectStorage("512 GB"))
	require.NoError(t, w.SelectFinish("Pink"))

	// storage change clears finish only
	require.NoError(t, w.SelectStorage("256 GB"))
	sel := w.Selection()
	assert.Equal(t, "iPhone 17", sel.Product)
	assert.Equal(t, "256GB", sel.Storage)
	assert.Empty(t, sel.Finish)

	require.NoError(t, w.SelectFinish("Teal"))
	require.NoError(t, w.SelectProduct("iPhone 17 Pro"))
	sel = w.Selection()
	assert.Equal(t, domain.CategoryIPhone, sel.Category)
	assert.Empty(t, sel.Storage)
	assert.Empty(t, sel.Finish)

	require.NoError(t, w.SelectCategory(domain.CategoryWatch))
	assert.Equal(t, domain.Selection{Category: domain.CategoryWatch}, w.Selection())
}

func TestWizard_SelectsEveryFormModel(t *testing.T) {
	tests := []struct {
		category domain.Category
		model    string
	}{
		{domain.CategoryIPhone, "iPhone 17 Pro Max"},
		{domain.CategoryIPhone, "iPhone 15"},
		{domain.CategoryIPad, `iPad Pro 11"`},
		{domain.CategoryMacBook, `MacBook Air 13" M2`},
		{domain.CategoryWatch, "Apple Watch Series 11 GPS + Cellular"},
		{domain.CategoryAirPods, "AirPods (3rd generation)"},
		{domain.CategoryAirPods, "AirPods Pro (2nd generation)"},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			w := newWizard(t)
			require.NoError(t, w.SelectCategory(tt.category))
			require.NoError(t, w.SelectProduct(tt.model))
			assert.Equal(t, tt.model, w.Selection().Product)
		})
	}
}

func TestWizard_StorageMenuOffersUnpricedCombinations(t *testing.T) {
	w := newWizard(t)
	require.NoError(t, w.SelectCategory(domain.CategoryIPhone))
	require.NoError(t, w.SelectProduct("iPhone 17 Pro"))
	require.NoError(t, w.SelectStorage("512GB"))
	require.NoError(t, w.SelectFinish("White Titanium"))
	assert.True(t, w.CanContinueProduct())

	_, priced := w.Variant()
	assert.False(t, priced)

	require.NoError(t, w.SelectFinish("black titanium"))
	v, ok := w.Variant()
	require.True(t, ok)
	assert.Equal(t, "iPhone 17 Pro 512GB Black Titanium", v.ItemName)
}

func TestWizard_ItemNameUsesCompactStorage(t *testing.T) {
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		rw.Write([]byte(`{"success":true,"leadId":"LEAD123"}`))
	}))
	defer server.Close()

	w := newWizard(t)
	require.NoError(t, w.SelectCategory(domain.CategoryIPhone))
	require.NoError(t, w.SelectProduct("iPhone 17"))
	require.NoError(t, w.SelectStorage("256 gb"))
	require.NoError(t, w.SelectFinish("Black"))
	require.NoError(t, w.ContinueToDetails())
	fillContact(t, w)

	client := leadclient.New(server.URL, 5*time.Second, zaptest.NewLogger(t))
	require.NoError(t, w.Submit(context.Background(), client, domain.Attribution{}))

	assert.Equal(t, "iPhone 17 256GB - Black", received["itemName"])
	assert.Equal(t, "LEAD123", w.LeadID())
}

func TestWizard_WatchModelChangeClearsSizeAndColor(t *testing.T) {
	w := newWizard(t)
	require.NoError(t, w.SelectCategory(domain.CategoryWatch))
	require.NoError(t, w.SelectProduct("Apple Watch Series 11 GPS"))
	require.NoError(t, w.SelectSize("46 mm"))
	require.NoError(t, w.SelectColor("Silver"))
	assert.True(t, w.CanContinueProduct())

	require.NoError(t, w.SelectProduct("Apple Watch Ultra 3"))

	sel := w.Selection()
	assert.Equal(t, domain.CategoryWatch, sel.Category)
	assert.Equal(t, "Apple Watch Ultra 3", sel.Product)
	assert.Empty(t, sel.Size)
	assert.Empty(t, sel.Color)
	assert.False(t, w.CanContinueProduct())
}

func TestWizard_SizeChangeClearsColor(t *testing.T) {
	w := newWizard(t)
	require.NoError(t, w.SelectCategory(domain.CategoryWatch))
	require.NoError(t, w.SelectProduct("Apple Watch Series 11 GPS"))
	require.NoError(t, w.SelectSize("42mm"))
	require.NoError(t, w.SelectColor("Rose Gold"))

	require.NoError(t, w.SelectSize("46mm"))
	assert.Empty(t, w.Selection().Color)

	// Rose Gold is only offered at 42mm
	err := w.SelectColor("Rose Gold")
	var selErr *errors.ErrInvalidSelection
	require.ErrorAs(t, err, &selErr)
	assert.Equal(t, "color", selErr.Field)
}

func TestWizard_ClearingAttributeDisablesContinue(t *testing.T) {
	tests := []struct {
		name  string
		setup func(w *Wizard) error
		clear func(w *Wizard) error
	}{
		{
			name: "finish",
			setup: func(w *Wizard) error {
				if err := w.SelectCategory(domain.CategoryMacBook); err != nil {
					return err
				}
				if err := w.SelectProduct(`MacBook Air 13" M4`); err != nil {
					return err
				}
				opts := w.catalog.StorageOptions(`MacBook Air 13" M4`)
				if err := w.SelectStorage(opts[0]); err != nil {
					return err
				}
				return w.SelectFinish(w.catalog.FinishOptions(`MacBook Air 13" M4`, opts[0])[0])
			},
			clear: func(w *Wizard) error { return w.SelectFinish("") },
		},
		{
			name: "airpods color",
			setup: func(w *Wizard) error {
				if err := w.SelectCategory(domain.CategoryAirPods); err != nil {
					return err
				}
				if err := w.SelectProduct("AirPods Max"); err != nil {
					return err
				}
				return w.SelectColor("Midnight")
			},
			clear: func(w *Wizard) error { return w.SelectColor("") },
		},
		{
			name: "product",
			setup: func(w *Wizard) error {
				if err := w.SelectCategory(domain.CategoryAirPods); err != nil {
					return err
				}
				if err := w.SelectProduct("AirPods 4"); err != nil {
					return err
				}
				return w.SelectColor("White")
			},
			clear: func(w *Wizard) error { return w.SelectProduct("") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWizard(t)
			require.NoError(t, tt.setup(w))
			assert.True(t, w.CanContinueProduct())

			require.NoError(t, tt.clear(w))
			assert.False(t, w.CanContinueProduct())
			assert.Error(t, w.ContinueToDetails())
		})
	}
}

func TestWizard_RejectsIrrelevantOrUnknownOptions(t *testing.T) {
	w := newWizard(t)

	assert.Error(t, w.SelectCategory("phones"))
	assert.Error(t, w.SelectProduct("iPhone 17"), "no category selected")

	require.NoError(t, w.SelectCategory(domain.CategoryWatch))
	assert.Error(t, w.SelectProduct("iPhone 17"), "model from another category")
	require.NoError(t, w.SelectProduct("Apple Watch Ultra 3"))
	assert.Error(t, w.SelectStorage("256 GB"))
	assert.Error(t, w.SelectFinish("Natural"))
	assert.Error(t, w.SelectColor("Natural"), "size not picked yet")
	assert.Error(t, w.SelectSize("42mm"))

	require.NoError(t, w.SelectCategory(domain.CategoryIPhone))
	require.NoError(t, w.SelectProduct("iPhone 17"))
	assert.Error(t, w.SelectSize("42mm"))
	assert.Error(t, w.SelectColor("Black"))
	assert.Error(t, w.SelectStorage("2 TB"))
}

func TestWizard_ContactFiltering(t *testing.T) {
	w := newWizard(t)

	require.NoError(t, w.SetContact(FieldPhone, "+91 98765-43210 ext 9"))
	require.NoError(t, w.SetContact(FieldPincode, "400 050 1"))
	assert.Equal(t, "9198765432", w.Contact().Phone)
	assert.Equal(t, "400050", w.Contact().Pincode)

	assert.Error(t, w.SetContact("nickname", "JD"))
}

func TestWizard_CanSubmit(t *testing.T) {
	w := readyForDetails(t)
	assert.False(t, w.CanSubmit())

	fillContact(t, w)
	assert.True(t, w.CanSubmit())

	require.NoError(t, w.SetContact(FieldPhone, "98765"))
	assert.False(t, w.CanSubmit())

	err := w.Submit(context.Background(), &fakeSubmitter{}, domain.Attribution{})
	var valErr *errors.ErrValidation
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, []string{"phone"}, valErr.Missing)
	assert.Equal(t, domain.WizardStepDetails, w.Step())
}

func TestWizard_SubmitSuccessAndStartOver(t *testing.T) {
	w := readyForDetails(t)
	fillContact(t, w)

	sub := &fakeSubmitter{result: &leadclient.Result{LeadID: "LEAD123"}}
	attr := domain.Attribution{UTMSource: "ig"}
	require.NoError(t, w.Submit(context.Background(), sub, attr))

	assert.Equal(t, domain.WizardStepSuccess, w.Step())
	assert.Equal(t, "LEAD123", w.LeadID())
	assert.Equal(t, "256GB", sub.gotSel.Storage)
	assert.Equal(t, attr, sub.gotAttr)

	assert.Error(t, w.SetContact(FieldFirstName, "Jane"))
	assert.Error(t, w.Retry())

	require.NoError(t, w.StartOver())
	assert.Equal(t, domain.WizardStepProduct, w.Step())
	assert.Equal(t, domain.Selection{}, w.Selection())
	assert.Equal(t, domain.ContactDetails{}, w.Contact())
	assert.Empty(t, w.LeadID())
}

func TestWizard_SubmitFailureAndRetry(t *testing.T) {
	w := readyForDetails(t)
	fillContact(t, w)

	sub := &fakeSubmitter{err: &leadclient.SubmitError{StatusCode: 500, Message: "Failed to create lead: 500 Internal Server Error"}}
	require.Error(t, w.Submit(context.Background(), sub, domain.Attribution{}))

	assert.Equal(t, domain.WizardStepFailed, w.Step())
	assert.Equal(t, "Failed to create lead: 500 Internal Server Error", w.ErrorMessage())
	assert.Error(t, w.StartOver())

	require.NoError(t, w.Retry())
	assert.Equal(t, domain.WizardStepDetails, w.Step())
	assert.Empty(t, w.ErrorMessage())
	assert.Equal(t, "John", w.Contact().FirstName)
	assert.Equal(t, "Black", w.Selection().Finish)

	sub.err = nil
	sub.result = &leadclient.Result{LeadID: "LEAD124"}
	require.NoError(t, w.Submit(context.Background(), sub, domain.Attribution{}))
	assert.Equal(t, 2, sub.calls)
}

func TestWizard_RejectsSubmitWhileSubmitting(t *testing.T) {
	w := readyForDetails(t)
	fillContact(t, w)

	sub := &fakeSubmitter{
		result:  &leadclient.Result{LeadID: "LEAD123"},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}

	done := make(chan error, 1)
	go func() {
		done <- w.Submit(context.Background(), sub, domain.Attribution{})
	}()
	<-sub.started

	assert.Equal(t, domain.WizardStepSubmitting, w.Step())
	err := w.Submit(context.Background(), sub, domain.Attribution{})
	var transErr *errors.ErrInvalidStateTransition
	require.ErrorAs(t, err, &transErr)
	assert.Error(t, w.Back())

	close(sub.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, sub.calls)
	assert.Equal(t, domain.WizardStepSuccess, w.Step())
}

func TestWizard_BackKeepsState(t *testing.T) {
	w := readyForDetails(t)
	require.NoError(t, w.SetContact(FieldFirstName, "John"))

	require.NoError(t, w.Back())
	assert.Equal(t, domain.WizardStepProduct, w.Step())
	assert.Equal(t, "Black", w.Selection().Finish)
	assert.Equal(t, "John", w.Contact().FirstName)
}
