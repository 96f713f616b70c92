// fakes_test.go — in-memory зависимости для HTTP-тестов API.
package handlers_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bigkaa/gofilehub/internal/cache"
	"github.com/bigkaa/gofilehub/internal/domain/model"
	"github.com/bigkaa/gofilehub/internal/queue"
	"github.com/bigkaa/gofilehub/internal/repository"
)

// stubChecker — проверка готовности с фиксированным результатом.
type stubChecker struct {
	status  string
	message string
}

func (c *stubChecker) CheckReady() (string, string) {
	return c.status, c.message
}

// memUserRepo — in-memory репозиторий пользователей.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*model.User)}
}

func (r *memUserRepo) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return fmt.Errorf("%w: email занят", repository.ErrConflict)
		}
	}
	u.CreatedAt = time.Now()
	stored := *u
	r.users[u.ID] = &stored
	return nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByID(_ context.Context, userID string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *memUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

// memSessionStore — in-memory хранилище сессий.
type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]string
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]string)}
}

func (s *memSessionStore) Store(_ context.Context, token, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = userID
	return nil
}

func (s *memSessionStore) Lookup(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.sessions[token]
	if !ok {
		return "", cache.ErrNoSession
	}
	return userID, nil
}

func (s *memSessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[token]; !ok {
		return cache.ErrNoSession
	}
	delete(s.sessions, token)
	return nil
}

// memFileRepo — in-memory репозиторий файлов с порядком вставки.
type memFileRepo struct {
	mu    sync.Mutex
	files []*model.File
}

func newMemFileRepo() *memFileRepo {
	return &memFileRepo{}
}

func (r *memFileRepo) Create(_ context.Context, f *model.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f.CreatedAt = time.Now()
	stored := *f
	r.files = append(r.files, &stored)
	return nil
}

func (r *memFileRepo) GetByID(_ context.Context, fileID string) (*model.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.files {
		if f.ID == fileID {
			copied := *f
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memFileRepo) GetOwned(_ context.Context, ownerID, fileID string) (*model.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.files {
		if f.ID == fileID && f.UserID == ownerID {
			copied := *f
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memFileRepo) List(_ context.Context, ownerID string, filter repository.FileListFilter, limit, offset int) ([]*model.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*model.File
	for _, f := range r.files {
		if f.UserID != ownerID {
			continue
		}
		if filter.ByParent {
			switch {
			case filter.ParentID == nil:
				if f.ParentID != nil {
					continue
				}
			case f.ParentID == nil || *f.ParentID != *filter.ParentID:
				continue
			}
		}
		copied := *f
		matched = append(matched, &copied)
	}

	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (r *memFileRepo) SetVisibility(_ context.Context, ownerID, fileID string, isPublic bool) (*model.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.files {
		if f.ID == fileID && f.UserID == ownerID {
			f.IsPublic = isPublic
			copied := *f
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memFileRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.files)), nil
}

// memTaskQueue — очередь, записывающая опубликованные задачи.
type memTaskQueue struct {
	mu    sync.Mutex
	tasks []queue.ThumbnailTask
}

func (q *memTaskQueue) EnqueueThumbnail(_ context.Context, task queue.ThumbnailTask) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
	return nil
}

func (q *memTaskQueue) Close() error { return nil }
