package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/maheshrc27/postpilot/internal/database"
	job "github.com/maheshrc27/postpilot/internal/jobs"
	"github.com/maheshrc27/postpilot/internal/queue"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var dispatchNoLock bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cfg.PostgresURI)
		if err != nil {
			return err
		}
		defer db.Close()

		version, dirty, err := database.RunMigrations(db)
		if err != nil {
			return err
		}
		fmt.Printf("schema version %d (dirty: %t)\n", version, dirty)
		return nil
	},
}

var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Run one dispatch pass and print the summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cfg.PostgresURI)
		if err != nil {
			return err
		}
		defer db.Close()

		pageService := service.NewPageService(*cfg, repository.NewFacebookPageRepository(db))
		dispatcher := queue.NewDispatcher(
			repository.NewScheduledPostRepository(db),
			repository.NewPublishAttemptRepository(db),
			pageService,
			service.NewFacebookService(*cfg),
		)

		var locker job.Locker
		if !dispatchNoLock {
			rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
			defer rdb.Close()
			locker = job.NewRedisLocker(rdb, cfg.Dispatch.LockTTL)
		}

		summary, err := job.NewDispatchJob(dispatcher, locker).Run(cmd.Context())
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List the posts the next pass would publish",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cfg.PostgresURI)
		if err != nil {
			return err
		}
		defer db.Close()

		dispatcher := queue.NewDispatcher(repository.NewScheduledPostRepository(db), nil, nil, nil)
		posts, err := dispatcher.Due(cmd.Context())
		if err != nil {
			return err
		}

		for _, p := range posts {
			fmt.Printf("%s\t%s\t%s\t%s\n", p.ID, p.PostType, p.PageID, p.ScheduledFor.Format("2006-01-02 15:04:05"))
		}
		fmt.Printf("%d due\n", len(posts))
		return nil
	},
}
