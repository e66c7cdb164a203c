package config

import (
	"log"

	"markethub/internal/core/domain"
	"markethub/internal/pkg/password"
)

// DefaultState builds the document a fresh install starts from: one
// sample customer and one sample vendor with a small catalogue.
// This is for development/testing only; real accounts come through
// registration.
func DefaultState() *domain.State {
	st := domain.NewState()

	customerPass, err := password.Hash("pass1")
	if err != nil {
		log.Printf("⚠️ Seed hash failed: %v", err)
		return st
	}
	vendorPass, err := password.Hash("pass1")
	if err != nil {
		log.Printf("⚠️ Seed hash failed: %v", err)
		return st
	}

	st.Users["customer1"] = &domain.User{
		Type:                domain.RoleCustomer,
		Credits:             0,
		Password:            customerPass,
		Email:               "customer1@example.com",
		PendingTransactions: []domain.PendingTransaction{},
	}
	st.Users["vendor1"] = &domain.User{
		Type:     domain.RoleVendor,
		Credits:  0,
		Password: vendorPass,
		Email:    "vendor1@example.com",
		Location: "Downtown Market",
		Products: []domain.Product{
			{Name: "Coffee", Price: 25},
			{Name: "Tea", Price: 20},
		},
		PendingTransactions: []domain.PendingTransaction{},
	}

	log.Println("🌱 Default users seeded: customer1, vendor1")
	return st
}
