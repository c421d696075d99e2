package pubsub

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pubsub "cloud.google.com/go/pubsub/v2"
	"cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"github.com/angelmondragon/spendwise-backend/pkg/config"
	"github.com/angelmondragon/spendwise-backend/pkg/logger"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	errProjectIDRequired    = errors.New("gcp project id is required")
	errSubscriptionRequired = errors.New("data changed subscription is required")
	errNotInitialized       = errors.New("pubsub client not initialized")
)

// Client owns the Pub/Sub connection used by the cache invalidator.
type Client struct {
	client       *pubsub.Client
	subscription string
	settings     pubsub.ReceiveSettings
}

// NewClient connects to Pub/Sub and fails fast when the data-changed subscription is missing.
func NewClient(ctx context.Context, gcp config.GCPConfig, cfg config.PubSubConfig, logg *logger.Logger) (*Client, error) {
	project := strings.TrimSpace(gcp.ProjectID)
	if project == "" {
		return nil, errProjectIDRequired
	}
	subscription, err := resourceName(project, cfg.DataChangedSubscription)
	if err != nil {
		return nil, err
	}

	psClient, err := pubsub.NewClient(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	c := &Client{
		client:       psClient,
		subscription: subscription,
		settings:     receiveSettings(cfg),
	}
	if err := c.Ping(ctx); err != nil {
		_ = psClient.Close()
		return nil, err
	}

	if logg != nil {
		ctx = logg.WithField(ctx, "subscription", subscription)
		logg.Info(ctx, "pubsub client initialized")
	}
	return c, nil
}

// DataChangedSubscription returns the subscriber for procurement data change notifications.
func (c *Client) DataChangedSubscription() *pubsub.Subscriber {
	if c == nil || c.client == nil {
		return nil
	}
	sub := c.client.Subscriber(c.subscription)
	sub.ReceiveSettings = c.settings
	return sub
}

// Ping checks that the subscription still exists.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return errNotInitialized
	}
	_, err := c.client.SubscriptionAdminClient.GetSubscription(ctx, &pubsubpb.GetSubscriptionRequest{
		Subscription: c.subscription,
	})
	switch {
	case err == nil:
		return nil
	case status.Code(err) == codes.NotFound:
		return fmt.Errorf("subscription %q does not exist", c.subscription)
	default:
		return fmt.Errorf("checking subscription %q: %w", c.subscription, err)
	}
}

// Close releases the Pub/Sub client resources.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// resourceName accepts a bare subscription ID or a full resource name.
func resourceName(project, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errSubscriptionRequired
	}
	if strings.HasPrefix(name, "projects/") {
		if !strings.Contains(name, "/subscriptions/") {
			return "", fmt.Errorf("malformed subscription %q", name)
		}
		return name, nil
	}
	if strings.Contains(name, "/") {
		return "", fmt.Errorf("malformed subscription %q", name)
	}
	return fmt.Sprintf("projects/%s/subscriptions/%s", project, name), nil
}

func receiveSettings(cfg config.PubSubConfig) pubsub.ReceiveSettings {
	settings := pubsub.DefaultReceiveSettings
	if cfg.MaxOutstandingMessages > 0 {
		settings.MaxOutstandingMessages = cfg.MaxOutstandingMessages
	}
	if cfg.NumGoroutines > 0 {
		settings.NumGoroutines = cfg.NumGoroutines
	}
	return settings
}
