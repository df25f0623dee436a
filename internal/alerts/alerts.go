// Package alerts emails a periodic digest of products that have fallen
// below the low-stock threshold.
package alerts

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/texfolio/stockroom/internal/models"
	"github.com/texfolio/stockroom/internal/repo"
)

// alertedSetKey tracks product ids already reported, so a product that
// stays low does not get re-alerted every cycle. The set expires on its
// own after the suppression window.
const (
	alertedSetKey     = "alerts:lowstock:reported"
	suppressionWindow = 7 * 24 * time.Hour
)

// Notifier owns the digest loop.
type Notifier struct {
	products  repo.ProductRepository
	rdb       *redis.Client
	logger    *zap.Logger
	threshold int

	smtpHost  string
	smtpPort  string
	from      string
	recipient string
}

type Config struct {
	Products  repo.ProductRepository
	Redis     *redis.Client
	Logger    *zap.Logger
	Threshold int
	SMTPHost  string
	SMTPPort  string
	From      string
	Recipient string
}

func NewNotifier(cfg Config) *Notifier {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		products:  cfg.Products,
		rdb:       cfg.Redis,
		logger:    logger,
		threshold: cfg.Threshold,
		smtpHost:  cfg.SMTPHost,
		smtpPort:  cfg.SMTPPort,
		from:      cfg.From,
		recipient: cfg.Recipient,
	}
}

// StartDigestLoop runs SendDigest on the interval until ctx ends.
func (n *Notifier) StartDigestLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := n.SendDigest(ctx); err != nil {
				n.logger.Error("low-stock digest failed", zap.Error(err))
			}
		}
	}
}

// SendDigest mails the current low-stock list, skipping products
// reported within the suppression window.
func (n *Notifier) SendDigest(ctx context.Context) error {
	threshold := n.threshold
	low, _, err := n.products.Filter(ctx, repo.ProductFilter{LowStockBelow: &threshold})
	if err != nil {
		return fmt.Errorf("listing low-stock products: %w", err)
	}

	fresh := make([]models.Product, 0, len(low))
	for _, p := range low {
		member := fmt.Sprint(p.ID)
		added, err := n.rdb.SAdd(ctx, alertedSetKey, member).Result()
		if err != nil {
			return fmt.Errorf("recording alerted product: %w", err)
		}
		if added > 0 {
			fresh = append(fresh, p)
		}
	}
	if len(fresh) == 0 {
		return nil
	}
	// Expiry restarts the suppression window from the latest digest.
	if err := n.rdb.Expire(ctx, alertedSetKey, suppressionWindow).Err(); err != nil {
		n.logger.Warn("setting suppression expiry failed", zap.Error(err))
	}

	if n.smtpHost == "" {
		n.logger.Info("smtp not configured, skipping low-stock email",
			zap.Int("products", len(fresh)))
		return nil
	}
	return n.sendMail(fresh)
}

func (n *Notifier) sendMail(low []models.Product) error {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d product(s) below the threshold of %d:\r\n\r\n", len(low), n.threshold))
	for _, p := range low {
		sb.WriteString(fmt.Sprintf("- %s (SKU %s): %d left\r\n", p.Name, p.SKU, p.Quantity))
	}

	msg := strings.Join([]string{
		"From: " + n.from,
		"To: " + n.recipient,
		"Subject: Low stock digest",
		"",
		sb.String(),
	}, "\r\n")

	addr := n.smtpHost + ":" + n.smtpPort
	if err := smtp.SendMail(addr, nil, n.from, []string{n.recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("sending digest email: %w", err)
	}
	n.logger.Info("low-stock digest sent", zap.Int("products", len(low)))
	return nil
}
