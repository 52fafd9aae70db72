package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/sngm3741/survey-app/api/internal/pollclient"
	"github.com/sngm3741/survey-app/api/internal/pollform"
)

var (
	app     = kingpin.New("pollctl", "Create and list polls through the poll API.")
	baseURL = app.Flag("base-url", "API base URL.").Envar("POLLCTL_BASE_URL").Default("http://localhost:8080").String()
	timeout = app.Flag("timeout", "Request timeout.").Default("10s").Duration()

	createCmd      = app.Command("create", "Submit a new poll.")
	createQuestion = createCmd.Flag("question", "Poll question.").Short('q').Required().String()
	createChoices  = createCmd.Flag("choice", "Poll choice, repeat for each one.").Short('c').Required().Strings()
	createMultiple = createCmd.Flag("multiple", "Allow more than one answer.").Bool()
	createExpires  = createCmd.Flag("expires-at", "Expiration time (RFC3339).").String()

	listCmd      = app.Command("list", "Show one page of polls.")
	listOffset   = listCmd.Flag("offset", "Index of the first poll.").Default("0").Int()
	listPageSize = listCmd.Flag("page-size", "Number of polls to show.").Default("100").Int()
)

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	client, err := pollclient.New(pollclient.Config{BaseURL: *baseURL, Cache: pollclient.NewCache()})
	app.FatalIfError(err, "")

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch command {
	case createCmd.FullCommand():
		err = runCreate(ctx, client, logger)
	case listCmd.FullCommand():
		err = runList(ctx, client, os.Stdout)
	}
	if err != nil {
		os.Exit(1)
	}
}

func runCreate(ctx context.Context, client *pollclient.Client, logger *logrus.Logger) error {
	form := pollform.NewForm(client, client, pollform.LogNotifier(logger))
	form.SetQuestion(*createQuestion)
	form.SetMultipleAnswers(*createMultiple)

	if value := strings.TrimSpace(*createExpires); value != "" {
		expiresAt, err := time.Parse(time.RFC3339, value)
		if err != nil {
			logger.WithError(err).Error("invalid --expires-at")
			return err
		}
		form.SetExpiresAt(&expiresAt)
	}

	for i, text := range *createChoices {
		if i > 0 {
			if err := form.AddChoice(); err != nil {
				return err
			}
		}
		if err := form.SetChoiceText(i, text); err != nil {
			return err
		}
	}

	poll, err := form.Submit(ctx)
	if err != nil {
		for i, reason := range form.Errors().Choices {
			logger.WithField("choice", i).Warn(reason)
		}
		return err
	}
	fmt.Println(poll.ID)
	return nil
}

func runList(ctx context.Context, client *pollclient.Client, out io.Writer) error {
	page, err := client.List(ctx, *listOffset, *listPageSize)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tID\tQUESTION\tCHOICES\tMULTI\tEXPIRES\tCREATED")
	for i, poll := range page.Data {
		expires := "never"
		if poll.ExpiresAt != nil {
			expires = humanize.Time(*poll.ExpiresAt)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%t\t%s\t%s\n",
			page.Offset+i+1, poll.ID, poll.Question, len(poll.Choices),
			poll.IsMultipleAnswerOptions, expires, humanize.Time(poll.CreatedAt))
	}
	return w.Flush()
}
