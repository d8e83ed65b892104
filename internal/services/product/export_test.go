package product

import "github.com/forgecommerce/catalog/internal/productcode"

// SetCodeLookup replaces the product code lookup used by Create.
func (s *Service) SetCodeLookup(f productcode.ExistsFunc) {
	s.codeLookup = f
}
