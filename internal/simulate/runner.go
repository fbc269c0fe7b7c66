package simulate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/fiesta/internal/domain/quiz"
	"github.com/okian/fiesta/pkg/logger"
)

// Run executes the complete conversation simulation.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting fiesta conversation simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("participants", config.Participants),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Run conversations concurrently
	if err := runConversations(ctx, config, stats); err != nil {
		return fmt.Errorf("conversation run failed: %w", err)
	}

	// Step 3: Fetch both leaderboards
	for _, track := range []string{"on_site", "remote"} {
		board, err := getLeaderboard(ctx, config, track)
		if err != nil {
			return fmt.Errorf("leaderboard retrieval failed: %w", err)
		}
		stats.LeaderboardEntries += len(board.Top)
		logger.Get().Info(ctx, "leaderboard fetched",
			logger.String("track", track),
			logger.Int("entries", len(board.Top)),
			logger.Any("empty", board.Empty))
	}

	// Step 4: Spot-check one rank lookup by display name
	if config.Participants > 0 {
		if err := checkRank(ctx, config, participantName(0)); err != nil {
			logger.Get().Warn(ctx, "rank spot-check failed", logger.Error(err))
		}
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "simulation completed successfully")
	return nil
}

// runConversations replays each participant script through a worker pool.
func runConversations(ctx context.Context, config *Config, stats *Stats) error {
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/updates"
	defs := quiz.DefaultCatalog()

	var (
		sent       int64
		successful int64
		duplicate  int64
		failed     int64
		completed  int64
	)

	indexChan := make(chan int, config.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for i := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				externalID := fmt.Sprintf("sim-%s", uuid.NewString())
				script := buildScript(i, defs)
				var firstUpdate *UpdateRequest

				for _, text := range script {
					update := UpdateRequest{
						UpdateID:   uuid.NewString(),
						ExternalID: externalID,
						Text:       text,
					}
					if firstUpdate == nil {
						u := update
						firstUpdate = &u
					}

					atomic.AddInt64(&sent, 1)
					resp, err := sendUpdate(ctx, client, url, update)
					switch {
					case err != nil:
						atomic.AddInt64(&failed, 1)
					case resp.Duplicate:
						atomic.AddInt64(&duplicate, 1)
					default:
						atomic.AddInt64(&successful, 1)
						if strings.Contains(resp.Reply.Text, "quiz complete") {
							atomic.AddInt64(&completed, 1)
						}
						if config.Verbose {
							logger.Get().Debug(ctx, "reply received",
								logger.String("externalID", externalID),
								logger.String("text", text),
								logger.String("reply", resp.Reply.Text))
						}
					}
				}

				// Replay the first update verbatim to exercise dedupe.
				if firstUpdate != nil {
					atomic.AddInt64(&sent, 1)
					resp, err := sendUpdate(ctx, client, url, *firstUpdate)
					switch {
					case err != nil:
						atomic.AddInt64(&failed, 1)
					case resp.Duplicate:
						atomic.AddInt64(&duplicate, 1)
					default:
						atomic.AddInt64(&successful, 1)
					}
				}
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for i := 0; i < config.Participants; i++ {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	wg.Wait()

	stats.Conversations = config.Participants
	stats.UpdatesSent = int(atomic.LoadInt64(&sent))
	stats.UpdatesSuccessful = int(atomic.LoadInt64(&successful))
	stats.UpdatesDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.UpdatesFailed = int(atomic.LoadInt64(&failed))
	stats.QuizzesCompleted = int(atomic.LoadInt64(&completed))
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// getLeaderboard fetches the top entries for a track.
func getLeaderboard(ctx context.Context, config *Config, track string) (*Board, error) {
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/leaderboard?track=" + track

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var board Board
	if err := json.Unmarshal(body, &board); err != nil {
		return nil, fmt.Errorf("failed to decode leaderboard: %w", err)
	}
	return &board, nil
}

// checkRank looks up one participant's exact rank by query.
func checkRank(ctx context.Context, config *Config, query string) error {
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/rank/" + strings.ReplaceAll(query, " ", "%20")

	resp, err := client.Get(ctx, url)
	if err != nil {
		return err
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var entry BoardEntry
	if err := json.Unmarshal(body, &entry); err != nil {
		return fmt.Errorf("failed to decode rank response: %w", err)
	}

	logger.Get().Info(ctx, "rank spot-check",
		logger.String("query", query),
		logger.Int("rank", entry.Rank),
		logger.Int("score", entry.Score))
	return nil
}

// displayFinalStats prints the final simulation statistics.
func displayFinalStats(stats *Stats) {
	var updatesPerSecond float64
	if stats.Duration > 0 {
		updatesPerSecond = float64(stats.UpdatesSent) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("conversations", stats.Conversations),
		logger.Int("updatesSent", stats.UpdatesSent),
		logger.Int("updatesSuccessful", stats.UpdatesSuccessful),
		logger.Int("updatesDuplicate", stats.UpdatesDuplicate),
		logger.Int("updatesFailed", stats.UpdatesFailed),
		logger.Int("quizzesCompleted", stats.QuizzesCompleted),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.String("duration", stats.Duration.String()),
		logger.Any("updatesPerSecond", updatesPerSecond))
}
