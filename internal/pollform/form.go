package pollform

import (
	"context"
	"errors"
	"time"

	"github.com/sngm3741/survey-app/api/internal/pollclient"
)

const (
	messageQuestionInvalid = "Poll question must be from 1 to 200 letters long"
	messageChoicesInvalid  = "Look what you wrote in the choice fields!"
	messageCreated         = "Poll successfully created"
)

// ErrInvalidDraft is returned by Submit when validation blocks the request.
var ErrInvalidDraft = errors.New("poll draft is invalid")

// RefreshKey is the list entry invalidated after a successful create.
var RefreshKey = pollclient.ListKey(0, 100)

// PollCreator sends a creation request. *pollclient.Client satisfies it.
type PollCreator interface {
	CreatePoll(ctx context.Context, req pollclient.CreatePollRequest) (pollclient.Poll, error)
}

// Invalidator drops cached list data by key.
type Invalidator interface {
	Invalidate(key string)
}

// Form drives a Draft through editing and submission.
// It is not safe for concurrent use.
type Form struct {
	draft       Draft
	errors      Result
	creator     PollCreator
	invalidator Invalidator
	notifier    Notifier
}

// NewForm starts from the initial draft. invalidator may be nil.
func NewForm(creator PollCreator, invalidator Invalidator, notifier Notifier) *Form {
	if notifier == nil {
		notifier = NotifierFunc(func(Notification) {})
	}
	return &Form{draft: NewDraft(), creator: creator, invalidator: invalidator, notifier: notifier}
}

func (f *Form) Draft() Draft   { return f.draft.clone() }
func (f *Form) Errors() Result { return f.errors }

func (f *Form) SetQuestion(question string) {
	f.draft = f.draft.WithQuestion(question)
}

func (f *Form) SetChoiceText(index int, text string) error {
	d, err := f.draft.WithChoiceText(index, text)
	if err != nil {
		return err
	}
	f.draft = d
	return nil
}

func (f *Form) SetMultipleAnswers(multiple bool) {
	f.draft = f.draft.WithMultipleAnswers(multiple)
}

func (f *Form) SetExpiresAt(expiresAt *time.Time) {
	f.draft = f.draft.WithExpiresAt(expiresAt)
}

// AddChoice appends an empty choice or shows the count toast.
func (f *Form) AddChoice() error {
	d, err := f.draft.AddChoice()
	if err != nil {
		f.rejectCount(err)
		return err
	}
	f.draft = d
	return nil
}

// RemoveChoice removes the choice at index or shows the count toast.
func (f *Form) RemoveChoice(index int) error {
	d, err := f.draft.RemoveChoice(index)
	if err != nil {
		f.rejectCount(err)
		return err
	}
	f.draft = d
	return nil
}

func (f *Form) rejectCount(err error) {
	if errors.Is(err, ErrChoiceCount) {
		f.notifier.Notify(Notification{Message: ErrChoiceCount.Error(), Color: ColorRed, Icon: IconExclamation})
	}
}

// Submit validates the draft and sends it once. On success the form resets
// and the first list page is invalidated.
func (f *Form) Submit(ctx context.Context) (pollclient.Poll, error) {
	res := Validate(f.draft)
	f.errors = res
	if !res.Valid() {
		if res.Question != "" {
			f.notifier.Notify(Notification{Message: messageQuestionInvalid, Color: ColorRed, Icon: IconExclamation})
		}
		if len(res.Choices) > 0 {
			f.notifier.Notify(Notification{Message: messageChoicesInvalid, Color: ColorRed, Icon: IconSkull})
		}
		return pollclient.Poll{}, ErrInvalidDraft
	}

	poll, err := f.creator.CreatePoll(ctx, f.draft.Request())
	if err != nil {
		f.notifier.Notify(Notification{Message: failureMessage(err), Color: ColorRed, Icon: IconSkull})
		return pollclient.Poll{}, err
	}

	f.notifier.Notify(Notification{Message: messageCreated, Color: ColorGreen, Icon: IconCheck})
	f.draft = NewDraft()
	f.errors = Result{}
	if f.invalidator != nil {
		f.invalidator.Invalidate(RefreshKey)
	}
	return poll, nil
}

func failureMessage(err error) string {
	var apiErr *pollclient.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
