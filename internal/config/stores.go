package config

import (
	"fmt"

	"github.com/unicornstore/prebook/internal/domain"
)

// DefaultStoreID is served when STORE_ID names no known store
const DefaultStoreID = "store1"

var stores = map[string]domain.Store{
	"store1": {
		ID:   "store1",
		Name: "Unicorn Store – One Horizon Center",
		Address: domain.StoreAddress{
			Line1:   "Plaza Tower, T-01",
			Line2:   "Golf Course Rd",
			City:    "Gurugram",
			State:   "Haryana",
			Pincode: "122009",
		},
		Contact: domain.StoreContact{
			Email: "support@unicornstore.com",
			Phone: "+91 98765 43210",
		},
		Disclaimer: "This pre-booking page is valid only for One Horizon Center, Gurugram store.",
		PageTitle:  "Unicorn Store - One Horizon Center",
	},
	"store2": placeholderStore(2),
	"store3": placeholderStore(3),
	"store4": placeholderStore(4),
	"store5": placeholderStore(5),
}

// Addresses for these outlets have not been published yet
func placeholderStore(n int) domain.Store {
	return domain.Store{
		ID:   fmt.Sprintf("store%d", n),
		Name: fmt.Sprintf("Unicorn Store – Store %d", n),
		Address: domain.StoreAddress{
			Line1:   "Address Line 1",
			Line2:   "Address Line 2",
			City:    "City",
			State:   "State",
			Pincode: "123456",
		},
		Contact: domain.StoreContact{
			Email: fmt.Sprintf("support%d@unicornstore.com", n),
			Phone: fmt.Sprintf("+91 98765 4321%d", n-1),
		},
		Disclaimer: fmt.Sprintf("This pre-booking page is valid only for Store %d.", n),
		PageTitle:  fmt.Sprintf("Unicorn Store - Store %d", n),
	}
}

// Store returns the configured store. The bool is false when id was unknown
// and the default store was substituted.
func Store(id string) (domain.Store, bool) {
	if s, ok := stores[id]; ok {
		return s, true
	}
	return stores[DefaultStoreID], false
}
