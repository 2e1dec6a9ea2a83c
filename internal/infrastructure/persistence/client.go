package persistence

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentaldocs/backend/internal/domain/document"
	"github.com/rentaldocs/backend/internal/domain/partner"
	"github.com/rentaldocs/backend/internal/domain/shared"
	"github.com/rentaldocs/backend/internal/infrastructure/cache"
	"github.com/rentaldocs/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	healthKey    = "persistence:health"
	healthUp     = "up"
	healthDown   = "down"
	saveKeyLabel = "save"
)

// Pinger reports whether the store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Client fronts the repositories for the application layer. Every call
// first consults a cached health check and fails fast with
// shared.ErrUnavailable while the store is down. An identical document save
// issued while another is in flight is stored once.
type Client struct {
	pinger    Pinger
	cache     cache.Cache
	healthTTL time.Duration
	dedupTTL  time.Duration
	logger    *zap.Logger

	documents document.Repository
	customers partner.CustomerRepository
	vendors   partner.VendorRepository
}

// Repositories groups the stores wrapped by a Client
type Repositories struct {
	Documents document.Repository
	Customers partner.CustomerRepository
	Vendors   partner.VendorRepository
}

// NewClient creates a Client
func NewClient(pinger Pinger, c cache.Cache, repos Repositories, cfg config.CacheConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		pinger:    pinger,
		cache:     c,
		healthTTL: cfg.HealthTTL,
		dedupTTL:  cfg.SaveDedupTTL,
		logger:    logger.Named("persistence"),
		documents: repos.Documents,
		customers: repos.Customers,
		vendors:   repos.Vendors,
	}
}

// NewGormRepositories builds the GORM repositories over db
func NewGormRepositories(db *Database) Repositories {
	return Repositories{
		Documents: NewGormDocumentRepository(db.DB),
		Customers: NewGormCustomerRepository(db.DB),
		Vendors:   NewGormVendorRepository(db.DB),
	}
}

// Documents returns the guarded document repository
func (c *Client) Documents() document.Repository {
	return &guardedDocuments{client: c, next: c.documents}
}

// Customers returns the guarded customer repository
func (c *Client) Customers() partner.CustomerRepository {
	return &guardedRepository[partner.Customer]{client: c, next: c.customers}
}

// Vendors returns the guarded vendor repository
func (c *Client) Vendors() partner.VendorRepository {
	return &guardedRepository[partner.Vendor]{client: c, next: c.vendors}
}

// Health pings the store unless a recent result is cached. A cache failure
// only costs the extra ping.
func (c *Client) Health(ctx context.Context) error {
	if value, found, err := c.cache.Get(ctx, healthKey); err == nil && found {
		if string(value) == healthUp {
			return nil
		}
		return shared.ErrUnavailable
	}

	status := healthUp
	pingErr := c.pinger.Ping(ctx)
	if pingErr != nil {
		status = healthDown
		c.logger.Warn("persistence health check failed", zap.Error(pingErr))
	}
	if err := c.cache.Set(ctx, healthKey, []byte(status), c.healthTTL); err != nil {
		c.logger.Debug("health result not cached", zap.Error(err))
	}

	if pingErr != nil {
		return shared.WrapDomainError("UNAVAILABLE", "Collaborator is unavailable", pingErr)
	}
	return nil
}

// claimSave reserves the save of this exact document content for the
// duration of the write. It returns false when an identical save is in
// flight. The TTL only bounds a claim whose holder never released it.
func (c *Client) claimSave(ctx context.Context, doc *document.Document) (key string, claimed bool) {
	fingerprint, err := documentFingerprint(doc)
	if err != nil {
		c.logger.Debug("document fingerprint failed", zap.Error(err))
		return "", true
	}
	key = fmt.Sprintf("%s:%s:%s", saveKeyLabel, doc.ID, fingerprint)

	ok, err := c.cache.SetNX(ctx, key, []byte("1"), c.dedupTTL)
	if err != nil {
		c.logger.Warn("save claim failed, saving anyway", zap.Error(err))
		return "", true
	}
	return key, ok
}

func (c *Client) releaseSave(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := c.cache.Delete(ctx, key); err != nil {
		c.logger.Warn("save claim not released", zap.String("key", key), zap.Error(err))
	}
}

// documentFingerprint hashes the stored content of doc, ignoring timestamps
func documentFingerprint(doc *document.Document) (string, error) {
	snapshot := *doc
	snapshot.BaseEntity = shared.BaseEntity{ID: doc.ID}
	snapshot.Persisted = false

	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

type guardedDocuments struct {
	client *Client
	next   document.Repository
}

func (g *guardedDocuments) FindAll(ctx context.Context, docType document.DocType) ([]document.Document, error) {
	if err := g.client.Health(ctx); err != nil {
		return nil, err
	}
	return g.next.FindAll(ctx, docType)
}

func (g *guardedDocuments) FindByID(ctx context.Context, docType document.DocType, id uuid.UUID) (*document.Document, error) {
	if err := g.client.Health(ctx); err != nil {
		return nil, err
	}
	return g.next.FindByID(ctx, docType, id)
}

func (g *guardedDocuments) Save(ctx context.Context, doc *document.Document) error {
	if err := g.client.Health(ctx); err != nil {
		return err
	}

	key, claimed := g.client.claimSave(ctx, doc)
	if !claimed {
		g.client.logger.Info("identical save in flight, skipped",
			zap.String("document_id", doc.ID.String()),
			zap.String("number", doc.Number))
		return nil
	}

	defer g.client.releaseSave(ctx, key)
	return g.next.Save(ctx, doc)
}

func (g *guardedDocuments) SaveAll(ctx context.Context, docs ...*document.Document) error {
	if err := g.client.Health(ctx); err != nil {
		return err
	}
	return g.next.SaveAll(ctx, docs...)
}

func (g *guardedDocuments) Delete(ctx context.Context, docType document.DocType, id uuid.UUID) error {
	if err := g.client.Health(ctx); err != nil {
		return err
	}
	return g.next.Delete(ctx, docType, id)
}

func (g *guardedDocuments) ExistsByNumber(ctx context.Context, docType document.DocType, number string, excludeID uuid.UUID) (bool, error) {
	if err := g.client.Health(ctx); err != nil {
		return false, err
	}
	return g.next.ExistsByNumber(ctx, docType, number, excludeID)
}

func (g *guardedDocuments) ListNumbers(ctx context.Context, docType document.DocType) ([]string, error) {
	if err := g.client.Health(ctx); err != nil {
		return nil, err
	}
	return g.next.ListNumbers(ctx, docType)
}

type guardedRepository[T any] struct {
	client *Client
	next   shared.Repository[T]
}

func (g *guardedRepository[T]) FindAll(ctx context.Context) ([]T, error) {
	if err := g.client.Health(ctx); err != nil {
		return nil, err
	}
	return g.next.FindAll(ctx)
}

func (g *guardedRepository[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	if err := g.client.Health(ctx); err != nil {
		return nil, err
	}
	return g.next.FindByID(ctx, id)
}

func (g *guardedRepository[T]) Save(ctx context.Context, entity *T) error {
	if err := g.client.Health(ctx); err != nil {
		return err
	}
	return g.next.Save(ctx, entity)
}

func (g *guardedRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	if err := g.client.Health(ctx); err != nil {
		return err
	}
	return g.next.Delete(ctx, id)
}
