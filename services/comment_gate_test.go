package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-blog/errs"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

type gateFixture struct {
	gate     *CommentGate
	comments *fakeComments
	notifier *mockNotifier
	clock    *clock
	postID   uuid.UUID
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	postID := uuid.New()
	f := &gateFixture{
		comments: &fakeComments{},
		notifier: &mockNotifier{},
		clock:    &clock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		postID:   postID,
	}
	posts := fakePosts{postID: {ID: postID}}
	f.gate = NewCommentGate(posts, f.comments, NewWordListClassifier(), f.notifier, WithClock(f.clock.now))
	return f
}

func (f *gateFixture) submit(token string) (CommentResult, error) {
	return f.gate.Submit(context.Background(), CommentSubmission{
		PostID:    f.postID,
		UserToken: token,
		Username:  "Alice",
		Body:      "Nice post",
	})
}

func TestCommentGate_SubmitStoresAndNotifies(t *testing.T) {
	f := newGateFixture(t)
	f.notifier.On("Notify", mock.Anything, "NEW COMMENT", "Check it\nThe username is Alice\nThe body is Nice post").Return(nil).Once()

	result, err := f.submit("tok")
	require.NoError(t, err)
	require.NotNil(t, result.Comment)
	assert.Equal(t, "tok", result.UserToken)
	assert.Equal(t, "tok", result.Comment.UserToken)
	assert.Equal(t, f.clock.t, result.Comment.CreatedAt)
	assert.Equal(t, 1, f.comments.count())
	f.notifier.AssertExpectations(t)
}

func TestCommentGate_MintsTokenWhenMissing(t *testing.T) {
	f := newGateFixture(t)
	f.notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	result, err := f.submit("")
	require.NoError(t, err)
	_, parseErr := uuid.Parse(result.UserToken)
	assert.NoError(t, parseErr)
	assert.Equal(t, result.UserToken, result.Comment.UserToken)
}

func TestCommentGate_Cooldown(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		allowed bool
	}{
		{"immediately", 0, false},
		{"one second short", 59*time.Minute + 59*time.Second, false},
		{"exactly sixty minutes", 60 * time.Minute, true},
		{"just after", 60*time.Minute + time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGateFixture(t)
			f.notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return(nil)

			_, err := f.submit("tok")
			require.NoError(t, err)

			f.clock.advance(tt.elapsed)
			_, err = f.submit("tok")
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, 2, f.comments.count())
				f.notifier.AssertNumberOfCalls(t, "Notify", 2)
				return
			}
			require.Error(t, err)
			assert.True(t, errs.IsRateLimited(err))
			assert.Equal(t, http.StatusTooManyRequests, errs.StatusCode(err))
			var apiErr *errs.ApiErr
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, "You can only submit a comment once every 60 minutes.", apiErr.UserMessage())
			assert.Equal(t, 1, f.comments.count())
			f.notifier.AssertNumberOfCalls(t, "Notify", 1)
		})
	}
}

func TestCommentGate_CooldownIsPerPostAndPerToken(t *testing.T) {
	f := newGateFixture(t)
	f.notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	otherPost := uuid.New()
	f.gate.posts = fakePosts{f.postID: {ID: f.postID}, otherPost: {ID: otherPost}}

	_, err := f.submit("tok")
	require.NoError(t, err)

	_, err = f.gate.Submit(context.Background(), CommentSubmission{PostID: otherPost, UserToken: "tok", Username: "Alice", Body: "Again"})
	require.NoError(t, err)

	_, err = f.submit("someone-else")
	require.NoError(t, err)

	assert.Equal(t, 3, f.comments.count())
}

func TestCommentGate_CustomCooldown(t *testing.T) {
	f := newGateFixture(t)
	f.notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	WithCooldown(5 * time.Minute)(f.gate)

	_, err := f.submit("tok")
	require.NoError(t, err)
	f.clock.advance(time.Minute)
	_, err = f.submit("tok")
	var apiErr *errs.ApiErr
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "You can only submit a comment once every 5 minutes.", apiErr.UserMessage())
}

func TestCommentGate_Validation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		body     string
		field    string
		message  string
	}{
		{"empty username", "", "Hello", "username", "This field is required."},
		{"blank username", "   ", "Hello", "username", "This field is required."},
		{"short username", "A", "Hello", "username", "Ensure this value has at least 2 characters (it has 1)."},
		{"empty body", "Alice", "", "body", "This field is required."},
		{"profane username", "sh1t head", "Hello", "username", "You cannot use swearing words in the username."},
		{"profane body", "Alice", "what the FUCK", "body", "You cannot use swearing words in the body."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGateFixture(t)
			_, err := f.gate.Submit(context.Background(), CommentSubmission{
				PostID: f.postID, UserToken: "tok", Username: tt.username, Body: tt.body,
			})
			require.Error(t, err)
			assert.True(t, errs.IsValidationFailed(err))

			var apiErr *errs.ApiErr
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, []string{tt.message}, apiErr.Fields[tt.field])
			assert.Zero(t, f.comments.count())
			f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCommentGate_LongBodyRejected(t *testing.T) {
	f := newGateFixture(t)
	long := make([]rune, 1025)
	for i := range long {
		long[i] = 'a'
	}
	_, err := f.gate.Submit(context.Background(), CommentSubmission{
		PostID: f.postID, UserToken: "tok", Username: "Alice", Body: string(long),
	})
	var apiErr *errs.ApiErr
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, []string{"Ensure this value has at most 1024 characters (it has 1025)."}, apiErr.Fields["body"])
}

func TestCommentGate_ClassifierConsulted(t *testing.T) {
	postID := uuid.New()
	classifier := &mockClassifier{}
	classifier.On("ContainsProfanity", "Alice").Return(false)
	classifier.On("ContainsProfanity", "innocent words").Return(true)
	gate := NewCommentGate(fakePosts{postID: {ID: postID}}, &fakeComments{}, classifier, &mockNotifier{})

	_, err := gate.Submit(context.Background(), CommentSubmission{PostID: postID, Username: "Alice", Body: "innocent words"})
	assert.True(t, errs.IsValidationFailed(err))
	classifier.AssertExpectations(t)
}

func TestCommentGate_UnknownPost(t *testing.T) {
	f := newGateFixture(t)
	result, err := f.gate.Submit(context.Background(), CommentSubmission{
		PostID: uuid.New(), Username: "Alice", Body: "Hello",
	})
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
	assert.Equal(t, http.StatusNotFound, errs.StatusCode(err))
	assert.NotEmpty(t, result.UserToken)
	assert.Zero(t, f.comments.count())
}

func TestCommentGate_NotifierFailureDoesNotFailSubmission(t *testing.T) {
	f := newGateFixture(t)
	f.notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	result, err := f.submit("tok")
	require.NoError(t, err)
	assert.NotNil(t, result.Comment)
	assert.Equal(t, 1, f.comments.count())
}

func TestCommentGate_StoreFailure(t *testing.T) {
	f := newGateFixture(t)
	f.comments.addErr = errors.New("disk full")

	_, err := f.submit("tok")
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, errs.StatusCode(err))
	f.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
}

func TestCommentGate_TrimsInput(t *testing.T) {
	f := newGateFixture(t)
	f.notifier.On("Notify", mock.Anything, "NEW COMMENT", "Check it\nThe username is Bob\nThe body is Hi there").Return(nil).Once()

	result, err := f.gate.Submit(context.Background(), CommentSubmission{
		PostID: f.postID, UserToken: "tok", Username: "  Bob ", Body: "\nHi there  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bob", result.Comment.Username)
	f.notifier.AssertExpectations(t)
}
