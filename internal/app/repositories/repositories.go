package repositories

// Repositories holds all the repository instances
type Repositories struct {
	CurriculumRepository *CurriculumRepository
	SessionRepository    *SessionRepository
}

// NewRepositories bundles the curriculum with a fresh session store
func NewRepositories(curriculum *CurriculumRepository, sessions *SessionRepository) *Repositories {
	return &Repositories{
		CurriculumRepository: curriculum,
		SessionRepository:    sessions,
	}
}
