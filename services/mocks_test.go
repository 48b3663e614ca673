package services

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-blog/models"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, subject, body string) error {
	args := m.Called(ctx, subject, body)
	return args.Error(0)
}

type mockClassifier struct {
	mock.Mock
}

func (m *mockClassifier) ContainsProfanity(text string) bool {
	return m.Called(text).Bool(0)
}

type fakePosts map[uuid.UUID]*models.BlogPost

func (f fakePosts) FindByID(_ context.Context, id uuid.UUID) (*models.BlogPost, error) {
	if p, ok := f[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeComments struct {
	mu       sync.Mutex
	comments []*models.Comment
	addErr   error
}

func (f *fakeComments) FindLatestByUser(_ context.Context, userToken string, postID uuid.UUID) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matches []*models.Comment
	for _, c := range f.comments {
		if c.UserToken == userToken && c.BlogPostID == postID {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		return nil, nil
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.After(matches[j].CreatedAt) })
	return matches[0], nil
}

func (f *fakeComments) Add(_ context.Context, c *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	c.ID = uuid.New()
	f.comments = append(f.comments, c)
	return nil
}

func (f *fakeComments) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.comments)
}
