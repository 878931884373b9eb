//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import "github.com/rios0rios0/cdlist/internal/domain/repositories"

// SpyNavigator records every route it is asked to open.
type SpyNavigator struct {
	Routes []string
}

var _ repositories.Navigator = (*SpyNavigator)(nil)

func (n *SpyNavigator) Navigate(route string) {
	n.Routes = append(n.Routes, route)
}
