// cmd/sms-dispatcher/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	awsclients "sms-dispatcher/internal/common/aws"
	"sms-dispatcher/internal/common/config"
	"sms-dispatcher/internal/common/database"
	"sms-dispatcher/internal/common/logger"
	"sms-dispatcher/internal/common/observability"
	"sms-dispatcher/internal/dispatcher"
	"sms-dispatcher/internal/history"
	"sms-dispatcher/pkg/manifest"
)

// retryWithBackoff attempts to execute a function with exponential backoff.
// Used for infrastructure connections only; message sends are never retried.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	var (
		configPath   = flag.String("config", "", "path to a config file (default: configs/config.yaml)")
		backendFlag  = flag.String("backend", "", "messaging backend: sns or pinpoint (overrides config)")
		to           = flag.String("to", "", "recipient phone number in E.164 format")
		message      = flag.String("message", "", "message body")
		kindFlag     = flag.String("kind", "", "message kind: TRANSACTIONAL or PROMOTIONAL")
		manifestPath = flag.String("manifest", "", "path to a batch manifest JSON file")
		segmentName  = flag.String("create-segment", "", "create a Pinpoint segment with this name")
		campaignName = flag.String("create-campaign", "", "create a Pinpoint campaign with this name")
		segmentID    = flag.String("segment-id", "", "segment id for -create-campaign")
		frequency    = flag.String("frequency", "", "campaign frequency: ONCE, HOURLY, DAILY, WEEKLY, MONTHLY")
		startTime    = flag.String("start", "", "campaign start: IMMEDIATE or ISO 8601 timestamp")
		campaignID   = flag.String("campaign-activities", "", "fetch activity metrics for this campaign id")
	)
	flag.Parse()

	zapLog := logger.New("info", "console")

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	if *backendFlag != "" {
		cfg.App.Backend = *backendFlag
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	if cfg.Metrics.Enabled {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.Metrics.Address, nil); err != nil {
				zapLog.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	ctx := context.Background()

	// --- Optional delivery history ---
	var sink dispatcher.Sink
	if cfg.History.Enabled {
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.History.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()

		store := history.NewStore(pg)
		if err := store.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("delivery log schema", zap.Error(err))
		}

		var cache *history.SentCache
		if cfg.History.Redis.Address != "" {
			rc, err := database.NewRedis(cfg.History.Redis)
			if err != nil {
				zapLog.Fatal("redis client", zap.Error(err))
			}
			if err := rc.Ping(ctx); err != nil {
				zapLog.Warn("redis unreachable, sent cache disabled", zap.Error(err))
			} else {
				defer rc.Close()
				cache = history.NewSentCache(rc)
			}
		}

		sink = history.NewDeliverySink(store, cache, cfg.App.Backend, log)
	}

	// --- Backend selection ---
	var backend dispatcher.Backend
	switch cfg.App.Backend {
	case "sns":
		client, err := awsclients.NewSNSClient(ctx, cfg.AWS)
		if err != nil {
			zapLog.Fatal("SNS client", zap.Error(err))
		}
		backend = dispatcher.NewSNSBackend(client, log)
	case "pinpoint":
		client, err := awsclients.NewPinpointClient(ctx, cfg.AWS)
		if err != nil {
			zapLog.Fatal("Pinpoint client", zap.Error(err))
		}
		backend = dispatcher.NewPinpointBackend(client, cfg.AWS.Pinpoint.ProjectID, log)
	default:
		zapLog.Fatal("unknown backend", zap.String("backend", cfg.App.Backend))
	}

	opts := []dispatcher.Option{dispatcher.WithObservability(obs)}
	if sink != nil {
		opts = append(opts, dispatcher.WithSink(sink))
	}
	d := dispatcher.New(backend, log, opts...)

	switch {
	case *segmentName != "":
		runCreateSegment(ctx, backend, *segmentName, zapLog)
	case *campaignName != "":
		runCreateCampaign(ctx, backend, dispatcher.CampaignParams{
			Name:      *campaignName,
			SegmentID: *segmentID,
			Body:      *message,
			Kind:      dispatcher.MessageKind(*kindFlag),
			StartTime: *startTime,
			Frequency: *frequency,
		}, zapLog)
	case *campaignID != "":
		runCampaignActivities(ctx, backend, *campaignID, zapLog)
	case *manifestPath != "":
		runManifest(ctx, d, cfg.App.Backend, *manifestPath, zapLog)
	case *to != "" && *message != "":
		kind, err := dispatcher.ParseKind(*kindFlag)
		if err != nil {
			zapLog.Fatal("invalid kind", zap.Error(err))
		}
		res, err := d.Send(ctx, dispatcher.SendRequest{Recipient: *to, Body: *message, Kind: kind})
		if err != nil {
			fmt.Printf("❌ send failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ SMS sent! Status: %d - %s, Message ID: %s\n",
			res.StatusCode, res.StatusMessage, res.MessageID)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runManifest(ctx context.Context, d *dispatcher.Dispatcher, backendName, path string, zapLog *zap.Logger) {
	m, err := manifest.Load(path)
	if err != nil {
		zapLog.Fatal("manifest rejected", zap.Error(err))
	}
	if m.Backend != "" && m.Backend != backendName {
		zapLog.Fatal("manifest targets a different backend",
			zap.String("manifest", m.Backend),
			zap.String("configured", backendName),
		)
	}

	zapLog.Info("dispatching batch",
		zap.String("batchId", m.BatchID),
		zap.Int("messages", len(m.Messages)),
	)

	failed := 0
	for _, outcome := range d.SendBatch(ctx, m.Requests()) {
		if outcome.Err != nil {
			failed++
			fmt.Printf("❌ %s: %v\n", outcome.Request.Recipient, outcome.Err)
			continue
		}
		fmt.Printf("✅ %s: Message ID %s\n", outcome.Request.Recipient, outcome.Result.MessageID)
	}

	if failed > 0 {
		fmt.Printf("batch %s finished with %d failure(s)\n", m.BatchID, failed)
		os.Exit(1)
	}
	fmt.Printf("batch %s finished, all sent\n", m.BatchID)
}

func pinpointOnly(backend dispatcher.Backend, zapLog *zap.Logger) *dispatcher.PinpointBackend {
	pp, ok := backend.(*dispatcher.PinpointBackend)
	if !ok {
		zapLog.Fatal("segments and campaigns require the pinpoint backend")
	}
	return pp
}

func runCreateSegment(ctx context.Context, backend dispatcher.Backend, name string, zapLog *zap.Logger) {
	seg, err := pinpointOnly(backend, zapLog).CreateSegment(ctx, dispatcher.SegmentParams{Name: name})
	if err != nil {
		fmt.Printf("❌ create segment failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ segment created: %s (id %s)\n", seg.Name, seg.ID)
}

func runCreateCampaign(ctx context.Context, backend dispatcher.Backend, params dispatcher.CampaignParams, zapLog *zap.Logger) {
	campaign, err := pinpointOnly(backend, zapLog).CreateCampaign(ctx, params)
	if err != nil {
		fmt.Printf("❌ create campaign failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ campaign created: %s (id %s, state %s)\n", campaign.Name, campaign.ID, campaign.State)
}

func runCampaignActivities(ctx context.Context, backend dispatcher.Backend, campaignID string, zapLog *zap.Logger) {
	activities, err := pinpointOnly(backend, zapLog).GetCampaignActivities(ctx, campaignID)
	if err != nil {
		fmt.Printf("❌ get campaign activities failed: %v\n", err)
		os.Exit(1)
	}
	for _, a := range activities {
		fmt.Printf("activity %s: state=%s result=%s delivered=%d/%d\n",
			a.ID, a.State, a.Result, a.SuccessfulEndpoints, a.TotalEndpoints)
	}
}
