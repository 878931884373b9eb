package navigation

import (
	"sync"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
)

// RecordingNavigator implements repositories.Navigator for surfaces without a router:
// it remembers every route and logs the absolute link to it.
type RecordingNavigator struct {
	settings *entities.Settings

	mu     sync.Mutex
	routes []string
}

// NewRecordingNavigator creates a navigator resolving routes against share.base_url.
func NewRecordingNavigator(settings *entities.Settings) *RecordingNavigator {
	return &RecordingNavigator{settings: settings}
}

func (n *RecordingNavigator) Navigate(route string) {
	n.mu.Lock()
	n.routes = append(n.routes, route)
	n.mu.Unlock()
	logger.Infof("Open %s%s", n.settings.Share.BaseURL, route)
}

// Routes returns every route navigated to, oldest first.
func (n *RecordingNavigator) Routes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	routes := make([]string, len(n.routes))
	copy(routes, n.routes)
	return routes
}

// Last returns the most recent route, or "" when none was pushed.
func (n *RecordingNavigator) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.routes) == 0 {
		return ""
	}
	return n.routes[len(n.routes)-1]
}
