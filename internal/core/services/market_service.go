package services

import (
	"context"
	"log"
	"sort"

	"markethub/internal/core/domain"
	"markethub/internal/core/state"
)

// MarketService covers the storefront: vendor product management and
// the listings customers browse.
type MarketService struct {
	container *state.Container
}

// NewMarketService creates a new market service
func NewMarketService(container *state.Container) *MarketService {
	return &MarketService{container: container}
}

// VendorListing is a vendor's public storefront.
type VendorListing struct {
	Identity string           `json:"identity"`
	Location string           `json:"location,omitempty"`
	Products []domain.Product `json:"products"`
}

// AddProduct adds a product to the vendor's catalogue. Product names
// are unique per vendor.
func (s *MarketService) AddProduct(ctx context.Context, vendor, name string, price int64) error {
	if name == "" {
		return domain.ErrInvalidInput
	}
	if price < 0 {
		return domain.ErrInvalidAmount
	}

	err := s.container.Update(ctx, func(st *domain.State) error {
		user := st.User(vendor)
		if user == nil || user.Type != domain.RoleVendor {
			return domain.ErrUserNotFound
		}
		for _, p := range user.Products {
			if p.Name == name {
				return domain.ErrDuplicateProduct
			}
		}
		user.Products = append(user.Products, domain.Product{Name: name, Price: price})
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("🛒 Product added: %s / %s (%d credits)", vendor, name, price)
	return nil
}

// RemoveProduct removes a product from the vendor's catalogue by name.
func (s *MarketService) RemoveProduct(ctx context.Context, vendor, name string) error {
	err := s.container.Update(ctx, func(st *domain.State) error {
		user := st.User(vendor)
		if user == nil || user.Type != domain.RoleVendor {
			return domain.ErrUserNotFound
		}
		for i, p := range user.Products {
			if p.Name == name {
				user.Products = append(user.Products[:i], user.Products[i+1:]...)
				return nil
			}
		}
		return domain.ErrNotFound
	})
	if err != nil {
		return err
	}

	log.Printf("🛒 Product removed: %s / %s", vendor, name)
	return nil
}

// ListVendors returns every vendor's storefront sorted by identity.
func (s *MarketService) ListVendors() []VendorListing {
	var vendors []VendorListing
	s.container.View(func(st *domain.State) {
		identities := make([]string, 0, len(st.Users))
		for identity, u := range st.Users {
			if u.Type == domain.RoleVendor {
				identities = append(identities, identity)
			}
		}
		sort.Strings(identities)

		for _, identity := range identities {
			u := st.Users[identity]
			vendors = append(vendors, VendorListing{
				Identity: identity,
				Location: u.Location,
				Products: append([]domain.Product(nil), u.Products...),
			})
		}
	})
	return vendors
}

// PendingPayments returns the payment requests awaiting a customer's
// decision.
func (s *MarketService) PendingPayments(customer string) ([]domain.PendingTransaction, error) {
	var (
		pending []domain.PendingTransaction
		found   bool
	)
	s.container.View(func(st *domain.State) {
		if user := st.User(customer); user != nil {
			found = true
			pending = append(pending, user.PendingTransactions...)
		}
	})
	if !found {
		return nil, domain.ErrUserNotFound
	}
	return pending, nil
}
