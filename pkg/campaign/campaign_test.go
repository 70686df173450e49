package campaign_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bulkmail/pkg/campaign"
	"github.com/dmitrymomot/bulkmail/pkg/contacts"
	"github.com/dmitrymomot/bulkmail/pkg/logger"
	"github.com/dmitrymomot/bulkmail/pkg/mailer"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, email *mailer.Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// sleepRecorder counts delays instead of waiting.
type sleepRecorder struct {
	calls []time.Duration
}

func (s *sleepRecorder) Sleep(_ context.Context, d time.Duration) error {
	s.calls = append(s.calls, d)
	return nil
}

func makeContacts(n int) []contacts.Contact {
	list := make([]contacts.Contact, n)
	for i := range list {
		list[i] = contacts.Contact{
			"email": fmt.Sprintf("user%d@example.com", i+1),
			"name":  fmt.Sprintf("User %d", i+1),
		}
	}
	return list
}

func intPtr(v int) *int { return &v }

func baseParams(list []contacts.Contact, sleep *sleepRecorder) campaign.Params {
	return campaign.Params{
		From:     "sender@example.com",
		Contacts: list,
		Subject:  "Hello $name",
		HTML:     "<p>Hi $name</p>",
		Delay:    5 * time.Second,
		Sleep:    sleep.Sleep,
		Logger:   logger.NewNope(),
	}
}

func TestSendBulk_SendsEveryContactWithoutCap(t *testing.T) {
	t.Parallel()

	sender := &mockSender{}
	sender.On("Send", mock.Anything, mock.Anything).Return(nil).Times(4)

	sleep := &sleepRecorder{}
	tally := campaign.SendBulk(context.Background(), sender, baseParams(makeContacts(4), sleep))

	assert.Equal(t, campaign.Tally{Sent: 4}, tally)
	assert.Len(t, sleep.calls, 3)
	sender.AssertExpectations(t)
}

func TestSendBulk_PersonalizesMessage(t *testing.T) {
	t.Parallel()

	var got *mailer.Email
	sender := mailer.SenderFunc(func(_ context.Context, e *mailer.Email) error {
		got = e
		return nil
	})

	p := baseParams([]contacts.Contact{{"email": "ada@example.com", "name": "Ada"}}, &sleepRecorder{})
	p.Text = "Hi $name, your code is $code"
	p.ReplyTo = "support@example.com"
	p.Headers = map[string]string{"List-Unsubscribe": "<https://example.com/unsub?e=$email>"}
	p.Tags = mailer.Tags{"campaign": "spring"}

	tally := campaign.SendBulk(context.Background(), sender, p)
	require.Equal(t, 1, tally.Sent)
	require.NotNil(t, got)

	assert.Equal(t, "sender@example.com", got.From)
	assert.Equal(t, []string{"ada@example.com"}, got.To)
	assert.Equal(t, "Hello Ada", got.Subject)
	assert.Equal(t, "<p>Hi Ada</p>", got.HTML)
	assert.Equal(t, "Hi Ada, your code is $code", got.Text)
	assert.Equal(t, "support@example.com", got.ReplyTo)
	assert.Equal(t, "<https://example.com/unsub?e=ada@example.com>", got.Headers["List-Unsubscribe"])
	assert.Equal(t, mailer.Tags{"campaign": "spring"}, got.Tags)
	assert.Equal(t, "<https://example.com/unsub?e=$email>", p.Headers["List-Unsubscribe"])
}

func TestSendBulk_EmptyBodyIsStillSent(t *testing.T) {
	t.Parallel()

	sender := &mockSender{}
	sender.On("Send", mock.Anything, mock.MatchedBy(func(e *mailer.Email) bool {
		return e.HTML == "" && e.Text == "" && e.Subject == "News"
	})).Return(nil).Once()

	p := baseParams([]contacts.Contact{{"email": "ada@example.com", "body": ""}}, &sleepRecorder{})
	p.Subject = "News"
	p.HTML = "$body"

	tally := campaign.SendBulk(context.Background(), sender, p)
	assert.Equal(t, campaign.Tally{Sent: 1}, tally)
	sender.AssertExpectations(t)
}

func TestSendBulk_NoTextTemplateMeansNoTextPart(t *testing.T) {
	t.Parallel()

	sender := &mockSender{}
	sender.On("Send", mock.Anything, mock.MatchedBy(func(e *mailer.Email) bool {
		return e.Text == ""
	})).Return(nil).Once()

	campaign.SendBulk(context.Background(), sender, baseParams(makeContacts(1), &sleepRecorder{}))
	sender.AssertExpectations(t)
}

func TestSendBulk_TestModeCapsAtThree(t *testing.T) {
	t.Parallel()

	sender := &mockSender{}
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	sleep := &sleepRecorder{}
	p := baseParams(makeContacts(10), sleep)
	p.TestMode = true

	tally := campaign.SendBulk(context.Background(), sender, p)

	assert.Equal(t, campaign.Tally{Sent: 3}, tally)
	sender.AssertNumberOfCalls(t, "Send", 3)
	assert.Len(t, sleep.calls, 2)
}

func TestSendBulk_TestModeKeepsLowerMax(t *testing.T) {
	t.Parallel()

	sender := &mockSender{}
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	p := baseParams(makeContacts(10), &sleepRecorder{})
	p.TestMode = true
	p.MaxEmails = intPtr(2)

	tally := campaign.SendBulk(context.Background(), sender, p)
	assert.Equal(t, 2, tally.Processed())
}

func TestSendBulk_MaxEmails(t *testing.T) {
	t.Parallel()

	sender := &mockSender{}
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	sleep := &sleepRecorder{}
	p := baseParams(makeContacts(5), sleep)
	p.MaxEmails = intPtr(2)

	tally := campaign.SendBulk(context.Background(), sender, p)

	assert.Equal(t, campaign.Tally{Sent: 2}, tally)
	sender.AssertNumberOfCalls(t, "Send", 2)
	require.Len(t, sleep.calls, 1)
	assert.Equal(t, 5*time.Second, sleep.calls[0])
}

func TestSendBulk_MaxEmailsZeroAndNegative(t *testing.T) {
	t.Parallel()

	for _, limit := range []int{0, -4} {
		sender := &mockSender{}
		p := baseParams(makeContacts(3), &sleepRecorder{})
		p.MaxEmails = intPtr(limit)

		tally := campaign.SendBulk(context.Background(), sender, p)
		assert.Equal(t, campaign.Tally{}, tally)
		sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	}
}

func TestSendBulk_MissingEmailNeverReachesTransport(t *testing.T) {
	t.Parallel()

	sender := &mockSender{}
	sleep := &sleepRecorder{}
	p := baseParams([]contacts.Contact{{"email": "", "name": "A"}}, sleep)

	tally := campaign.SendBulk(context.Background(), sender, p)

	assert.Equal(t, campaign.Tally{Failed: 1}, tally)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	assert.Empty(t, sleep.calls)
}

func TestSendBulk_MissingEmailSkipsWithoutDelay(t *testing.T) {
	t.Parallel()

	list := []contacts.Contact{
		{"email": "a@example.com"},
		{"name": "no address"},
		{"email": "   "},
		{"email": "d@example.com"},
	}

	sender := &mockSender{}
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	sleep := &sleepRecorder{}
	tally := campaign.SendBulk(context.Background(), sender, baseParams(list, sleep))

	assert.Equal(t, campaign.Tally{Sent: 2, Failed: 2}, tally)
	sender.AssertNumberOfCalls(t, "Send", 2)
	// Only the first send is followed by a delay; the last never is.
	assert.Len(t, sleep.calls, 1)
}

func TestSendBulk_SendErrorCountsAsFailed(t *testing.T) {
	t.Parallel()

	list := makeContacts(3)
	sender := &mockSender{}
	sender.On("Send", mock.Anything, mock.MatchedBy(func(e *mailer.Email) bool {
		return e.To[0] == "user2@example.com"
	})).Return(errors.Join(mailer.ErrSendFailed, errors.New("550 mailbox unavailable")))
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	sleep := &sleepRecorder{}
	tally := campaign.SendBulk(context.Background(), sender, baseParams(list, sleep))

	assert.Equal(t, campaign.Tally{Sent: 2, Failed: 1}, tally)
	assert.Equal(t, len(list), tally.Processed())
	assert.Len(t, sleep.calls, 2)
}

func TestSendBulk_NoDelayWhenZero(t *testing.T) {
	t.Parallel()

	sender := &mockSender{}
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	sleep := &sleepRecorder{}
	p := baseParams(makeContacts(3), sleep)
	p.Delay = 0

	campaign.SendBulk(context.Background(), sender, p)
	assert.Empty(t, sleep.calls)
}

func TestSendBulk_EmptyList(t *testing.T) {
	t.Parallel()

	sender := &mockSender{}
	tally := campaign.SendBulk(context.Background(), sender, baseParams(nil, &sleepRecorder{}))
	assert.Equal(t, campaign.Tally{}, tally)
}

func TestSendBulk_HTMLFilterAndAutoText(t *testing.T) {
	t.Parallel()

	var got *mailer.Email
	sender := mailer.SenderFunc(func(_ context.Context, e *mailer.Email) error {
		got = e
		return nil
	})

	p := baseParams([]contacts.Contact{{"email": "a@example.com", "name": "Ada"}}, &sleepRecorder{})
	p.HTML = "# Hi $name"
	p.HTMLFilter = func(s string) (string, error) {
		return "<h1>" + strings.TrimPrefix(s, "# ") + "</h1>", nil
	}
	p.TextFromHTML = func(s string) string {
		return strings.NewReplacer("<h1>", "", "</h1>", "").Replace(s)
	}

	campaign.SendBulk(context.Background(), sender, p)
	require.NotNil(t, got)
	assert.Equal(t, "<h1>Hi Ada</h1>", got.HTML)
	assert.Equal(t, "Hi Ada", got.Text)
}

func TestSendBulk_HTMLFilterErrorFailsContact(t *testing.T) {
	t.Parallel()

	sender := &mockSender{}
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	calls := 0
	p := baseParams(makeContacts(2), &sleepRecorder{})
	p.HTMLFilter = func(s string) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("render failed")
		}
		return s, nil
	}

	tally := campaign.SendBulk(context.Background(), sender, p)
	assert.Equal(t, campaign.Tally{Sent: 1, Failed: 1}, tally)
}

func TestSendBulk_CancelledDuringDelayStops(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sender := &mockSender{}
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	p := baseParams(makeContacts(5), &sleepRecorder{})
	p.Sleep = func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}

	tally := campaign.SendBulk(ctx, sender, p)
	assert.Equal(t, campaign.Tally{Sent: 1}, tally)
	sender.AssertNumberOfCalls(t, "Send", 1)
}

func TestSendBulk_AlreadyCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sender := &mockSender{}
	tally := campaign.SendBulk(ctx, sender, baseParams(makeContacts(3), &sleepRecorder{}))
	assert.Equal(t, campaign.Tally{}, tally)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		n        int
		max      *int
		testMode bool
		want     int
	}{
		{"no cap", 7, nil, false, 7},
		{"max below len", 5, intPtr(2), false, 2},
		{"max above len", 2, intPtr(10), false, 2},
		{"max zero", 5, intPtr(0), false, 0},
		{"max negative", 5, intPtr(-1), false, 0},
		{"test mode", 10, nil, true, 3},
		{"test mode short list", 2, nil, true, 2},
		{"test mode lower max", 10, intPtr(1), true, 1},
		{"test mode higher max", 10, intPtr(8), true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, campaign.Limit(tt.n, tt.max, tt.testMode))
		})
	}
}

func TestSleep(t *testing.T) {
	t.Parallel()

	require.NoError(t, campaign.Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	require.ErrorIs(t, campaign.Sleep(ctx, time.Hour), context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
