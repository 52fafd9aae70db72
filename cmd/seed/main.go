package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/remeh/sizedwaitgroup"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/sngm3741/survey-app/api/internal/config"
	"github.com/sngm3741/survey-app/api/internal/poll/application"
	"github.com/sngm3741/survey-app/api/internal/poll/domain"
	"github.com/sngm3741/survey-app/api/internal/server"
)

const defaultSeed = 20240601

type seedOptions struct {
	envFiles    []string
	pollCount   int
	failedCount int
	randomSeed  int64
	workers     int
}

var questionTemplates = []struct {
	question string
	choices  []string
}{
	{"好きなプログラミング言語は？", []string{"Go", "Rust", "TypeScript", "Python", "Kotlin", "Elixir"}},
	{"リモートワークは週に何日が理想？", []string{"0日", "1日", "2日", "3日", "4日", "5日"}},
	{"朝食は何派？", []string{"ごはん", "パン", "シリアル", "食べない"}},
	{"最も使うエディタは？", []string{"Vim", "Emacs", "VS Code", "GoLand", "Zed"}},
	{"次の社内イベントは？", []string{"BBQ", "ボウリング", "ハッカソン", "オンライン飲み会"}},
	{"Which season do you like best?", []string{"Spring", "Summer", "Autumn", "Winter"}},
	{"How do you commute?", []string{"Train", "Bus", "Bicycle", "Walk", "Car"}},
}

func main() {
	opts := parseFlags()

	if err := loadEnvFiles(opts.envFiles); err != nil {
		log.Fatalf("環境変数の読み込みに失敗しました: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	backend, err := server.OpenBackend(ctx, cfg)
	if err != nil {
		log.Fatalf("ストレージ接続に失敗しました: %v", err)
	}
	defer func() {
		if err := backend.Close(context.Background()); err != nil {
			log.Printf("WARN: ストレージ切断に失敗: %v", err)
		}
	}()

	rng := rand.New(rand.NewSource(opts.randomSeed))
	polls := application.NewPollService(backend.Polls)

	created := make([]*domain.Poll, 0, opts.pollCount)
	for _, cmd := range generatePolls(rng, opts.pollCount, time.Now()) {
		poll, err := polls.Create(ctx, cmd)
		if err != nil {
			log.Fatalf("投票データの挿入に失敗しました: %v", err)
		}
		created = append(created, poll)
	}

	// 投票は挿入順が一覧順になるため直列、通知失敗レコードは並列で投入する
	swg := sizedwaitgroup.New(opts.workers)
	for _, failure := range generateFailedNotifications(rng, created, opts.failedCount) {
		swg.Add()
		go recordFailure(ctx, &swg, backend.Failures, failure)
	}
	swg.Wait()

	log.Printf("Seed 完了: polls=%d failedNotifications=%d", len(created), min(opts.failedCount, len(created)))
	log.Printf("Store: %s (collection=%s)", cfg.StoreDriver, cfg.PollCollection)
}

func parseFlags() seedOptions {
	var opts seedOptions
	app := kingpin.New("seed", "サンプルの投票データを投入する")
	app.Flag("env-file", "読み込む env ファイル (複数指定可)").Default(".env").StringsVar(&opts.envFiles)
	app.Flag("polls", "生成する投票数").Default("20").IntVar(&opts.pollCount)
	app.Flag("failed", "生成する通知失敗レコード数").Default("3").IntVar(&opts.failedCount)
	app.Flag("seed", "乱数シード（再現用）").Default(fmt.Sprint(defaultSeed)).Int64Var(&opts.randomSeed)
	app.Flag("workers", "通知失敗レコード投入の並列数").Default("4").IntVar(&opts.workers)
	kingpin.MustParse(app.Parse(os.Args[1:]))

	if opts.pollCount < 1 {
		app.Fatalf("polls は 1 以上を指定してください")
	}
	if opts.workers < 1 {
		app.Fatalf("workers は 1 以上を指定してください")
	}
	if opts.failedCount < 0 {
		app.Fatalf("failed は 0 以上を指定してください")
	}
	return opts
}

func recordFailure(ctx context.Context, wg *sizedwaitgroup.SizedWaitGroup, repo application.FailedNotificationRepository, failure domain.NotificationFailure) {
	defer wg.Done()
	if err := repo.Record(ctx, failure); err != nil {
		log.Fatalf("通知失敗データの挿入に失敗しました: %v", err)
	}
}

// loadEnvFiles は存在する env ファイルだけを読み込む。既に設定済みの環境変数は上書きしない。
func loadEnvFiles(paths []string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func generatePolls(rng *rand.Rand, count int, now time.Time) []application.CreatePollCommand {
	cmds := make([]application.CreatePollCommand, 0, count)
	for i := 0; i < count; i++ {
		tmpl := questionTemplates[rng.Intn(len(questionTemplates))]
		question := fmt.Sprintf("%s (#%d)", tmpl.question, i+1)

		choiceCount := 2 + rng.Intn(len(tmpl.choices)-1)
		texts := pickUnique(rng, tmpl.choices, choiceCount)
		choices := make([]application.ChoiceCommand, 0, len(texts))
		for _, text := range texts {
			choices = append(choices, application.ChoiceCommand{Text: text})
		}

		cmd := application.CreatePollCommand{
			Question:                &question,
			Choices:                 choices,
			IsMultipleAnswerOptions: rng.Intn(3) == 0,
			CreatedBy:               fmt.Sprintf("seed-user-%02d", rng.Intn(10)+1),
		}
		if rng.Intn(2) == 0 {
			expires := now.Add(time.Duration(24+rng.Intn(24*30)) * time.Hour).UTC()
			cmd.ExpiresAt = &expires
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

func generateFailedNotifications(rng *rand.Rand, polls []*domain.Poll, count int) []domain.NotificationFailure {
	if count > len(polls) {
		count = len(polls)
	}
	result := make([]domain.NotificationFailure, 0, count)
	for _, idx := range rng.Perm(len(polls))[:count] {
		poll := polls[idx]
		tried := poll.CreatedAt.Add(time.Duration(rng.Intn(60)) * time.Second)
		result = append(result, domain.NotificationFailure{
			Target: "poll_created",
			Payload: map[string]string{
				"pollId":     poll.ID,
				"question":   poll.Question.String(),
				"createdBy":  poll.CreatedBy,
				"identifier": poll.CreatedBy,
			},
			Error:       "メッセンジャー送信でエラーが発生: status=503 body=unavailable",
			Attempts:    3,
			Status:      "pending",
			CreatedAt:   tried,
			LastTriedAt: tried,
		})
	}
	return result
}

func pickUnique(rng *rand.Rand, source []string, count int) []string {
	if count > len(source) {
		count = len(source)
	}
	picked := make([]string, 0, count)
	for _, idx := range rng.Perm(len(source))[:count] {
		picked = append(picked, source[idx])
	}
	return picked
}
