package auth

import (
	"context"
	"sync"

	"relaychat/api/internal/models"
	"relaychat/api/internal/repository"
)

// memStore is an in-memory UserStore with injectable failures.
type memStore struct {
	mu          sync.Mutex
	byEmail     map[string]models.User
	createErrs  []error // consumed one per Create call, nil entries mean success
	findErr     error
	enrichErr   error
	enrichCalls int
}

func newMemStore() *memStore {
	return &memStore{byEmail: map[string]models.User{}}
}

func (s *memStore) add(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byEmail[user.Email] = user
}

func (s *memStore) Create(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.createErrs) > 0 {
		err := s.createErrs[0]
		s.createErrs = s.createErrs[1:]
		if err != nil {
			return err
		}
	}
	if _, exists := s.byEmail[user.Email]; exists {
		return repository.ErrEmailTaken
	}
	s.byEmail[user.Email] = user
	return nil
}

func (s *memStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findErr != nil {
		return models.User{}, s.findErr
	}
	user, ok := s.byEmail[email]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *memStore) GetByID(ctx context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (s *memStore) EnrichProfile(ctx context.Context, id string, name string, avatarURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enrichCalls++
	if s.enrichErr != nil {
		return s.enrichErr
	}
	for email, user := range s.byEmail {
		if user.ID != id {
			continue
		}
		if user.AvatarURL == nil && avatarURL != "" {
			user.AvatarURL = &avatarURL
		}
		if user.DisplayName == "" {
			user.DisplayName = name
		}
		s.byEmail[email] = user
		return nil
	}
	return repository.ErrUserNotFound
}
