// fakes_test.go — in-memory реализации зависимостей сервисного слоя.
package service

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

// fakeUserRepo — in-memory репозиторий пользователей.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User // по ID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return fmt.Errorf("%w: пользователь с таким email уже зарегистрирован", repository.ErrConflict)
		}
	}
	u.CreatedAt = time.Now()
	stored := *u
	r.users[u.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
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

func (r *fakeUserRepo) GetByID(_ context.Context, userID string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

// fakeSessionStore — in-memory хранилище сессий.
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]string // token → userID
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]string)}
}

func (s *fakeSessionStore) Store(_ context.Context, token, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = userID
	return nil
}

func (s *fakeSessionStore) Lookup(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.sessions[token]
	if !ok {
		return "", cache.ErrNoSession
	}
	return userID, nil
}

func (s *fakeSessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[token]; !ok {
		return cache.ErrNoSession
	}
	delete(s.sessions, token)
	return nil
}

// fakeFileRepo — in-memory репозиторий файлов с сохранением порядка вставки.
type fakeFileRepo struct {
	mu    sync.Mutex
	files []*model.File
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{}
}

func (r *fakeFileRepo) Create(_ context.Context, f *model.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f.CreatedAt = time.Now()
	stored := *f
	r.files = append(r.files, &stored)
	return nil
}

func (r *fakeFileRepo) GetByID(_ context.Context, fileID string) (*model.File, error) {
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

func (r *fakeFileRepo) GetOwned(_ context.Context, ownerID, fileID string) (*model.File, error) {
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

func (r *fakeFileRepo) List(_ context.Context, ownerID string, filter repository.FileListFilter, limit, offset int) ([]*model.File, error) {
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

func (r *fakeFileRepo) SetVisibility(_ context.Context, ownerID, fileID string, isPublic bool) (*model.File, error) {
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

func (r *fakeFileRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.files)), nil
}

// fakeTaskQueue — очередь, записывающая опубликованные задачи.
type fakeTaskQueue struct {
	mu         sync.Mutex
	tasks      []queue.ThumbnailTask
	enqueueErr error
}

func newFakeTaskQueue() *fakeTaskQueue {
	return &fakeTaskQueue{}
}

func (q *fakeTaskQueue) EnqueueThumbnail(_ context.Context, task queue.ThumbnailTask) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.enqueueErr != nil {
		return q.enqueueErr
	}
	q.tasks = append(q.tasks, task)
	return nil
}

func (q *fakeTaskQueue) Close() error { return nil }

func (q *fakeTaskQueue) published() []queue.ThumbnailTask {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]queue.ThumbnailTask(nil), q.tasks...)
}

// Проверки соответствия интерфейсам.
var (
	_ repository.UserRepository = (*fakeUserRepo)(nil)
	_ repository.FileRepository = (*fakeFileRepo)(nil)
	_ SessionStore              = (*fakeSessionStore)(nil)
	_ queue.TaskQueue           = (*fakeTaskQueue)(nil)
)
