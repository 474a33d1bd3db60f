package common

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	imageBuildOnce      sync.Once
	imageBuildError     error
	newsletterContainer *NewsletterContainer
	newsletterOnce      sync.Once
	newsletterStartErr  error
)

// NewsletterContainer wraps the newsletter portal running in Docker.
type NewsletterContainer struct {
	container testcontainers.Container
	ctx       context.Context
	cancel    context.CancelFunc
	url       string
}

// URL returns the base URL of the running container.
func (n *NewsletterContainer) URL() string {
	return n.url
}

// CollectLogs saves container stdout/stderr to dir/newsletter.log.
func (n *NewsletterContainer) CollectLogs(dir string) {
	if n == nil || n.container == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	os.MkdirAll(dir, 0755)

	reader, err := n.container.Logs(ctx)
	if err != nil {
		return
	}
	defer reader.Close()

	logs, err := io.ReadAll(reader)
	if err != nil {
		return
	}
	os.WriteFile(filepath.Join(dir, "newsletter.log"), logs, 0644)
}

// Cleanup terminates the container.
// Uses a fresh context for teardown in case the main context expired.
func (n *NewsletterContainer) Cleanup() {
	if n == nil {
		return
	}

	cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cleanupCancel()

	if n.container != nil {
		n.container.Terminate(cleanupCtx)
	}
	if n.cancel != nil {
		n.cancel()
	}
}

// buildImage builds the newsletter-portal:test Docker image once per test run.
func buildImage() error {
	imageBuildOnce.Do(func() {
		ctx := context.Background()

		req := testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				FromDockerfile: testcontainers.FromDockerfile{
					Context:    FindProjectRoot(),
					Dockerfile: "tests/docker/Dockerfile",
					Repo:       "newsletter-portal",
					Tag:        "test",
					KeepImage:  true,
				},
			},
		}

		_, imageBuildError = testcontainers.GenericContainer(ctx, req)
		if imageBuildError != nil {
			// Image may have built successfully even if container creation failed
			if strings.Contains(imageBuildError.Error(), "newsletter-portal:test") {
				imageBuildError = nil
			}
		}
	})
	return imageBuildError
}

func startContainer() (*NewsletterContainer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)

	ctr, err := testcontainers.Run(ctx, "newsletter-portal:test",
		testcontainers.WithExposedPorts("8080/tcp"),
		testcontainers.WithEnv(map[string]string{
			"NEWSLETTER_ENV":             "dev",
			"NEWSLETTER_SERVER_HOST":     "0.0.0.0",
			"NEWSLETTER_SERVER_PORT":     "8080",
			"NEWSLETTER_STORAGE_BACKEND": "memory",
		}),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/api/health").WithPort("8080/tcp").WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("start newsletter-portal: %w", err)
	}

	mappedPort, err := ctr.MappedPort(ctx, "8080/tcp")
	if err != nil {
		ctr.Terminate(ctx)
		cancel()
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		ctr.Terminate(ctx)
		cancel()
		return nil, fmt.Errorf("get container host: %w", err)
	}

	return &NewsletterContainer{
		container: ctr,
		ctx:       ctx,
		cancel:    cancel,
		url:       fmt.Sprintf("http://%s:%s", host, mappedPort.Port()),
	}, nil
}

func start() (*NewsletterContainer, error) {
	newsletterOnce.Do(func() {
		if err := buildImage(); err != nil {
			newsletterStartErr = fmt.Errorf("build image: %w", err)
			return
		}
		newsletterContainer, newsletterStartErr = startContainer()
	})
	return newsletterContainer, newsletterStartErr
}

// StartNewsletter starts the portal container (one per test process).
// Returns nil when NEWSLETTER_TEST_URL is set and tests use that server.
func StartNewsletter(t *testing.T) *NewsletterContainer {
	t.Helper()
	if os.Getenv(TestURLEnv) != "" {
		return nil
	}
	c, err := start()
	if err != nil {
		t.Fatalf("Failed to start test environment: %v", err)
	}
	return c
}

// StartNewsletterForTestMain is StartNewsletter for TestMain (no *testing.T).
func StartNewsletterForTestMain() (*NewsletterContainer, error) {
	if os.Getenv(TestURLEnv) != "" {
		return nil, nil
	}
	return start()
}
