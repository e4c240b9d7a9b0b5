package deps

import (
	"context"
	"fmt"
	"remindbot/internal/config"
	"remindbot/internal/core/domain/intent"
	dl "remindbot/internal/core/domain/logging"
	drl "remindbot/internal/core/domain/rate_limiter"
	"remindbot/internal/core/domain/reminder"
	"remindbot/internal/core/domain/reply"
	"remindbot/internal/core/domain/sweep"
	"remindbot/internal/db"
	dbreminder "remindbot/internal/db/reminder"
	bridgemessenger "remindbot/internal/implementations/bridge_messenger"
	calltimeout "remindbot/internal/implementations/call_timeout"
	intentclassifier "remindbot/internal/implementations/intent_classifier"
	"remindbot/internal/implementations/logging"
	ratelimiter "remindbot/internal/implementations/rate_limiter"
	replycomposer "remindbot/internal/implementations/reply_composer"
	sweepobserver "remindbot/internal/implementations/sweep_observer"
	timeresolver "remindbot/internal/implementations/time_resolver"
	tokenverifier "remindbot/internal/implementations/token_verifier"
	twiliomessenger "remindbot/internal/implementations/twilio_messenger"
	"remindbot/internal/rabbitmq"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/getsentry/sentry-go"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/r3labs/sse/v2"
	"github.com/go-redis/redis/v9"
	"golang.org/x/crypto/bcrypt"
)

type Deps struct {
	Config    *config.Config
	AwsConfig aws.Config
	Logger    dl.Logger

	DB        *pgxpool.Pool
	Redis     *redis.Client
	Rabbitmq  *rabbitmq.Connection
	SseServer *sse.Server

	Now func() time.Time

	ReminderRepository reminder.Repository
	RateLimiter        drl.RateLimiter
	Messenger          reminder.Messenger
	TimeResolver       reminder.TimeResolver
	Composer           reply.Composer
	Classifier         intent.Classifier
	SweepObserver      sweep.Observer

	TriggerTokenValidator *tokenverifier.Bcrypt
	// Nil unless the twilio transport is configured with a webhook URL.
	TwilioSignatureValidator *twiliomessenger.SignatureValidator
}

func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	deps.initAwsConfig()

	closeLogger := deps.initLogger()
	closePgxPool := deps.initPgxPool()
	closeRedisClient := deps.initRedisClient()
	closeRabbitmqConn := deps.initRabbitmqConnection()
	closeSseServer := deps.initSseServer()

	deps.Now = func() time.Time { return time.Now().UTC() }
	deps.ReminderRepository = calltimeout.Repository(
		dbreminder.NewPgxReminderRepository(deps.DB),
		deps.Config.StoreCallTimeout,
	)
	deps.RateLimiter = ratelimiter.NewRedis(deps.Redis, deps.Logger, deps.Now)
	deps.Messenger = calltimeout.Messenger(deps.initMessenger(), deps.Config.MessengerCallTimeout)
	deps.TimeResolver = timeresolver.New(deps.Config.Location)
	deps.Composer = deps.initComposer()
	deps.Classifier = intentclassifier.New(deps.Logger, intentclassifier.Config{
		APIKey:  deps.Config.ClassifierAPIKey,
		BaseURL: deps.Config.ClassifierBaseURL,
		Model:   deps.Config.ClassifierModel,
		Timeout: deps.Config.ClassifierTimeout,
	})
	deps.SweepObserver = deps.initSweepObserver()
	deps.TriggerTokenValidator = tokenverifier.NewBcrypt(deps.Config.TriggerTokenHash, bcrypt.DefaultCost)

	flushSentry := deps.initSentry()

	return deps, func() {
		closeFuncs := []func(){
			closeSseServer,
			closeRabbitmqConn,
			closeRedisClient,
			closePgxPool,
			flushSentry,
		}

		var wg sync.WaitGroup
		wg.Add(len(closeFuncs))
		for _, closeFunc := range closeFuncs {
			closeFunc := closeFunc
			go func() {
				closeFunc()
				wg.Done()
			}()
		}

		wg.Wait()
		closeLogger()
	}
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initAwsConfig() {
	if !deps.Config.AlertsEnabled() {
		return
	}
	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(deps.Config.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				deps.Config.AwsAccessKey,
				deps.Config.AwsSecretKey,
				"",
			),
		),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), time.Second*5),
				3,
			)
		}),
	)
	if err != nil {
		panic(err)
	}
	deps.AwsConfig = cfg
}

func (deps *Deps) initLogger() func() {
	logger := logging.NewZapLogger(deps.Config.LogLevel)
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) initPgxPool() func() {
	if deps.Config.PostgresqlAutoMigrate {
		applied, err := db.Migrate(deps.Config.PostgresqlURL, deps.Config.MigrationsPath)
		if err != nil {
			deps.Logger.Error(context.Background(), "Could not apply DB migrations.", dl.Entry("err", err))
			panic(err)
		}
		deps.Logger.Info(context.Background(), "DB migrations checked.", dl.Entry("applied", applied))
	}

	pool, err := pgxpool.Connect(context.Background(), deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = pool
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		pool.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
	}
}

func (deps *Deps) initRedisClient() func() {
	redisOpt, err := redis.ParseURL(deps.Config.RedisURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to Redis.", dl.Entry("err", err))
		panic(err)
	}
	redisClient := redis.NewClient(redisOpt)
	deps.Redis = redisClient
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down Redis client.")
		redisClient.Close()
		deps.Logger.Info(context.Background(), "Redis client shut down.")
	}
}

func (deps *Deps) initRabbitmqConnection() func() {
	if !deps.Config.QueueEnabled() {
		deps.Logger.Info(context.Background(), "RabbitMQ is disabled, inbound messages are processed in-process.")
		return func() {}
	}
	rabbitmqConnection, err := rabbitmq.Dial(deps.Logger, deps.Config.RabbitmqURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to RabbitMQ.", dl.Entry("err", err))
		panic("could not connect to RabbitMQ")
	}
	deps.Rabbitmq = rabbitmqConnection
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down RabbitMQ connection.")
		rabbitmqConnection.Close()
		deps.Logger.Info(context.Background(), "RabbitMQ connection shut down.")
	}
}

func (deps *Deps) initSseServer() func() {
	deps.SseServer = sse.New()
	deps.SseServer.AutoStream = false
	deps.SseServer.AutoReplay = false
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down SSE server.")
		deps.SseServer.Close()
		deps.Logger.Info(context.Background(), "SSE server shut down.")
	}
}

func (deps *Deps) initMessenger() reminder.Messenger {
	switch deps.Config.MessengerTransport {
	case config.TransportTwilio:
		if deps.Config.TwilioWebhookURL != "" {
			deps.TwilioSignatureValidator = twiliomessenger.NewSignatureValidator(deps.Config.TwilioAuthToken)
		}
		return twiliomessenger.New(
			deps.Config.TwilioAccountSID,
			deps.Config.TwilioAuthToken,
			deps.Config.TwilioWhatsAppNumber,
		)
	default:
		return bridgemessenger.New(deps.Config.BridgeAPIURL, deps.Config.MessengerCallTimeout)
	}
}

func (deps *Deps) initComposer() reply.Composer {
	composer, err := replycomposer.New(deps.Config.BotLocale, deps.Config.Location)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create reply composer.", dl.Entry("err", err))
		panic(err)
	}
	return composer
}

func (deps *Deps) initSweepObserver() sweep.Observer {
	observers := []sweep.Observer{sweepobserver.NewSSEPublisher(deps.SseServer)}
	if deps.Config.AlertsEnabled() {
		observers = append(observers, sweepobserver.NewEmailAlert(
			deps.Logger,
			deps.AwsConfig,
			deps.Config.AlertEmailSender,
			deps.Config.AlertEmailRecipient,
		))
	}
	return sweepobserver.Multi(observers...)
}

func (deps *Deps) initSentry() func() {
	if deps.Config.SentryDsn != nil {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              deps.Config.SentryDsn.String(),
			TracesSampleRate: 0.01,
		})
		if err != nil {
			panic(fmt.Sprintf("could not init Sentry: %v\n", err))
		}
		deps.Logger.Info(context.Background(), "Sentry has been successfully initialized.")
		return func() {
			ok := sentry.Flush(5 * time.Second)
			deps.Logger.Info(context.Background(), "Sentry events flushed.", dl.Entry("ok", ok))
		}
	}

	deps.Logger.Info(context.Background(), "Sentry is disabled.")
	return func() {}
}
