package repositories

// Navigator pushes a route on whatever surface is presenting the workspace.
type Navigator interface {
	Navigate(route string)
}
