package health

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// CheckHealth reports whether the ticket store is reachable.
func (s *Service) CheckHealth() error {
	return s.repo.Ping()
}
