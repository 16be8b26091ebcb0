//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/application"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/cache"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/events"
	rentalEvents "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/events"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/database"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/kafka"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/repository"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/migrations"
)

// testInfra is the shared backing infrastructure for one integration run.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Redis        *redis.Client
}

// rentalStack is the booking engine wired to real adapters.
type rentalStack struct {
	Service  *application.BookingService
	Flats    *application.FlatService
	Cache    *cache.RedisFlatCache
	Consumer *rentalEvents.LeaseEndedConsumer
}

// setupContainers starts PostgreSQL, Kafka and Redis. Containers are
// terminated through t.Cleanup.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	return &testInfra{
		DB:           startPostgres(t),
		KafkaBrokers: startKafka(t, events.TopicRentalEvents, events.TopicContractEvents),
		Redis:        startRedis(t),
	}
}

func terminateOnCleanup(t *testing.T, name string, c testcontainers.Container) {
	t.Cleanup(func() {
		if err := c.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate %s container: %v", name, err)
		}
	})
}

// startPostgres boots postgres, waits for GORM to connect and applies the
// embedded SQL migrations.
func startPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "rental",
				"POSTGRES_PASSWORD": "rental",
				"POSTGRES_DB":       "rental_test",
			},
			// The server restarts once after init.
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")
	terminateOnCleanup(t, "PostgreSQL", container)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := database.PostgresConfig{
		Host:     host,
		Port:     port.Int(),
		User:     "rental",
		Password: "rental",
		DBName:   "rental_test",
		SSLMode:  "disable",
	}

	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = database.Connect(cfg, zap.NewNop())
		return err == nil
	}, 30*time.Second, time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, database.RunMigrations(cfg.DatabaseURL(), migrations.FS, zap.NewNop()))
	return db
}

// startKafka boots a single KRaft broker and creates topics up front.
func startKafka(t *testing.T, topics ...string) []string {
	t.Helper()
	ctx := context.Background()

	container, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")
	terminateOnCleanup(t, "Kafka", container)

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, brokers, topics...)
	return brokers
}

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start Redis container")
	terminateOnCleanup(t, "Redis", container)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: net.JoinHostPort(host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// setupRentalStack builds the engine, flat service and lease consumer on top
// of infra. The producer and consumer are closed through t.Cleanup.
func setupRentalStack(t *testing.T, infra *testInfra) *rentalStack {
	t.Helper()
	logger := zaptest.NewLogger(t)

	bookings := repository.NewGormBookingRepository(infra.DB)
	flats := repository.NewGormFlatRepository(infra.DB)
	leases := repository.NewGormLeaseRepository(infra.DB)
	towers := repository.NewGormTowerRepository(infra.DB)

	producer := kafka.NewProducer(infra.KafkaBrokers, logger)
	t.Cleanup(func() { _ = producer.Close() })

	flatCache := cache.NewRedisFlatCache(infra.Redis, time.Minute, logger)
	engine := application.NewBookingService(
		repository.NewGormUnitOfWork(infra.DB),
		bookings, flats, leases,
		producer, flatCache, logger,
	)

	consumer := rentalEvents.NewLeaseEndedConsumer(
		infra.KafkaBrokers,
		"rental-it-"+uuid.NewString()[:8],
		engine,
		logger,
	)
	t.Cleanup(func() { _ = consumer.Close() })

	return &rentalStack{
		Service:  engine,
		Flats:    application.NewFlatService(flats, towers, bookings, flatCache, logger),
		Cache:    flatCache,
		Consumer: consumer,
	}
}

// publishTestEvent publishes a CloudEvent to Kafka.
func publishTestEvent(t *testing.T, brokers []string, topic, source, eventType string, data interface{}) {
	t.Helper()
	producer := kafka.NewProducer(brokers, zaptest.NewLogger(t))
	defer func() { _ = producer.Close() }()

	ce, err := kafka.NewCloudEvent(source, eventType, data)
	require.NoError(t, err, "failed to create cloud event")

	err = producer.PublishEvent(context.Background(), topic, ce)
	require.NoError(t, err, "failed to publish event")
}

// waitForLeaseStatus polls the leases table until the status matches.
func waitForLeaseStatus(t *testing.T, db *gorm.DB, leaseID uuid.UUID, expectedStatus string, timeout time.Duration) repository.LeaseModel {
	t.Helper()
	var result repository.LeaseModel
	require.Eventually(t, func() bool {
		var model repository.LeaseModel
		if err := db.Where("id = ?", leaseID).First(&model).Error; err != nil {
			return false
		}
		if model.Status == expectedStatus {
			result = model
			return true
		}
		return false
	}, timeout, 200*time.Millisecond, "lease did not transition to %s", expectedStatus)
	return result
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type and subject.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType, subject string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     "rental-assert-" + uuid.NewString()[:8],
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType && ce.Subject == subject {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
