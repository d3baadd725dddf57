package health

import "time"

// Service encapsulates liveness reporting for the bot process.
type Service struct {
	name string
	now  func() time.Time
}

// NewService constructs a health service reporting under the given name.
func NewService(name string) *Service {
	return &Service{name: name, now: time.Now}
}

// Status returns the liveness payload.
func (s *Service) Status() map[string]any {
	return map[string]any{
		"ok":      true,
		"service": s.name,
		"time":    s.now().UTC().Format(time.RFC3339),
	}
}
