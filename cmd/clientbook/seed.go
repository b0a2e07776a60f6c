package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/clientbook/clientbook/internal/config"
	"github.com/clientbook/clientbook/internal/crm"
	"github.com/clientbook/clientbook/internal/meeting"
	"github.com/clientbook/clientbook/internal/user"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed a demo advisor with clients and meetings",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

const (
	demoEmail    = "demo@clientbook.dev"
	demoPassword = "demo-password"
)

type demoClient struct {
	name     string
	phone    string
	meetings []demoMeeting
	upcoming []demoScheduled
}

type demoMeeting struct {
	date      string
	notes     string
	summary   string
	sentiment string
}

type demoScheduled struct {
	date string
	time string
}

var demoClients = []demoClient{
	{
		name:  "Jane Doe",
		phone: "555-0101",
		meetings: []demoMeeting{
			{
				date:      "2026-07-14",
				notes:     "Reviewed Q2 portfolio performance. Jane is pleased with the balanced fund returns and wants to increase her monthly contribution by $500.",
				summary:   "Reviewed Q2 performance; client happy with returns and raising monthly contributions by $500.",
				sentiment: meeting.SentimentPositive,
			},
			{
				date:      "2026-05-02",
				notes:     "Discussed college savings plan for her daughter. Ran projections for a 529 plan.",
				summary:   "Explored a 529 college savings plan with projections for her daughter's education.",
				sentiment: meeting.SentimentNeutral,
			},
		},
		upcoming: []demoScheduled{
			{date: "2026-09-15", time: "09:30"},
		},
	},
	{
		name:  "Marcus Webb",
		phone: "555-0102",
		meetings: []demoMeeting{
			{
				date:      "2026-06-20",
				notes:     "Marcus is worried about market volatility after the recent correction. Walked through his risk tolerance questionnaire again.",
				summary:   "Client anxious about volatility after the correction; re-ran the risk tolerance assessment.",
				sentiment: meeting.SentimentNegative,
			},
		},
		upcoming: []demoScheduled{
			{date: "2026-09-03", time: "14:00"},
			{date: "2026-10-01", time: "11:00"},
		},
	},
	{
		name:  "Priya Shah",
		phone: "555-0103",
	},
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	userStore := user.NewStore(pool)
	clientStore := crm.NewStore(pool)
	meetingStore := meeting.NewStore(pool)

	// Check if seed has already run.
	if _, err := userStore.GetByEmail(ctx, demoEmail); err == nil {
		slog.Info("demo data already exists, skipping seed")
		return nil
	}

	advisor, err := userStore.Create(ctx, user.CreateUserInput{
		Email:    demoEmail,
		Password: demoPassword,
		FullName: "Demo Advisor",
	})
	if err != nil {
		return fmt.Errorf("creating demo advisor: %w", err)
	}
	slog.Info("created demo advisor", "id", advisor.ID, "email", advisor.Email)

	var clientCount, meetingCount, scheduledCount int
	for _, dc := range demoClients {
		phone := dc.phone
		c, err := clientStore.Create(ctx, advisor.ID, crm.CreateClientInput{
			Name:  dc.name,
			Phone: &phone,
		})
		if err != nil {
			return fmt.Errorf("creating client %q: %w", dc.name, err)
		}
		clientCount++

		for _, dm := range dc.meetings {
			date, err := time.Parse("2006-01-02", dm.date)
			if err != nil {
				return fmt.Errorf("parsing seed date %q: %w", dm.date, err)
			}
			summary, sentiment := dm.summary, dm.sentiment
			if _, err := meetingStore.InsertMeeting(ctx, meeting.InsertMeetingInput{
				ClientID:  c.ID,
				Date:      date,
				Notes:     dm.notes,
				Summary:   &summary,
				Sentiment: &sentiment,
			}); err != nil {
				return fmt.Errorf("creating meeting for %q: %w", dc.name, err)
			}
			meetingCount++
		}

		for _, ds := range dc.upcoming {
			date, err := time.Parse("2006-01-02", ds.date)
			if err != nil {
				return fmt.Errorf("parsing seed date %q: %w", ds.date, err)
			}
			if _, err := meetingStore.InsertScheduled(ctx, meeting.InsertScheduledInput{
				ClientID: c.ID,
				Date:     date,
				Time:     ds.time,
			}); err != nil {
				return fmt.Errorf("scheduling meeting for %q: %w", dc.name, err)
			}
			scheduledCount++
		}
	}

	fmt.Printf("\n=== Demo Data Seeded ===\n")
	fmt.Printf("Advisor:   %s\n", demoEmail)
	fmt.Printf("Password:  %s\n", demoPassword)
	fmt.Printf("Clients:   %d, meetings: %d, scheduled: %d\n", clientCount, meetingCount, scheduledCount)
	fmt.Printf("\nTry it:\n")
	fmt.Printf("  curl -X POST http://localhost:8080/api/v1/auth/login -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", demoEmail, demoPassword)

	return nil
}
