// Package repository implements Redis persistence for vault secrets.
// Each secret lives under one key ("secrets:<id>") as a JSON record; a
// dedicated hash maps lowercased names to ids so that case-insensitive name
// uniqueness is enforced atomically with HSETNX instead of full keyspace scans.
package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/redkeep/redkeep/internal/errors"
	"github.com/redkeep/redkeep/internal/vault/domain"
)

const (
	// recordKeyPrefix prefixes every secret record key.
	recordKeyPrefix = "secrets:"
	// nameIndexKey is the hash mapping lowercased secret names to ids.
	nameIndexKey = "secrets:name_index"
	// scanBatchSize is the COUNT hint for SCAN iterations.
	scanBatchSize = 100
)

// RedisSecretRepository implements secret persistence on a shared pooled
// Redis client. It is safe for concurrent use.
type RedisSecretRepository struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisSecretRepository creates a new Redis-backed secret repository.
func NewRedisSecretRepository(client *redis.Client, logger *slog.Logger) *RedisSecretRepository {
	return &RedisSecretRepository{client: client, logger: logger}
}

// recordKey returns the Redis key holding the record for the given secret id.
func recordKey(id string) string {
	return recordKeyPrefix + id
}

// indexField returns the name-index hash field for a secret name.
func indexField(name string) string {
	return strings.ToLower(name)
}

// Create persists a new secret. The lowercased name is reserved in the name
// index first via HSETNX, which makes the uniqueness check atomic: of two
// concurrent creates with the same name, exactly one wins. The reservation is
// rolled back if the record write fails.
func (r *RedisSecretRepository) Create(ctx context.Context, secret *domain.Secret) error {
	field := indexField(secret.Name)

	reserved, err := r.client.HSetNX(ctx, nameIndexKey, field, secret.ID).Result()
	if err != nil {
		return apperrors.Wrap(err, "failed to reserve secret name")
	}
	if !reserved {
		return domain.ErrNameTaken
	}

	data, err := json.Marshal(secret)
	if err != nil {
		r.releaseName(ctx, field)
		return apperrors.Wrap(err, "failed to encode secret record")
	}

	if err := r.client.Set(ctx, recordKey(secret.ID), data, 0).Err(); err != nil {
		r.releaseName(ctx, field)
		return apperrors.Wrap(err, "failed to write secret record")
	}

	return nil
}

// Get retrieves a secret record by id. Expiry is not evaluated here; that is
// the use-case layer's concern.
func (r *RedisSecretRepository) Get(ctx context.Context, id string) (*domain.Secret, error) {
	data, err := r.client.Get(ctx, recordKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrSecretNotFound
		}
		return nil, apperrors.Wrap(err, "failed to read secret record")
	}

	var secret domain.Secret
	if err := json.Unmarshal(data, &secret); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode secret record")
	}

	return &secret, nil
}

// Update persists a mutated secret record. previousName is the name the
// record carried before the mutation; when the rename changes the lowercased
// form, the new name is reserved atomically before the old reservation is
// released, so a rename can never collide with a concurrent create.
func (r *RedisSecretRepository) Update(
	ctx context.Context,
	secret *domain.Secret,
	previousName string,
) error {
	oldField := indexField(previousName)
	newField := indexField(secret.Name)
	renamed := oldField != newField

	if renamed {
		reserved, err := r.client.HSetNX(ctx, nameIndexKey, newField, secret.ID).Result()
		if err != nil {
			return apperrors.Wrap(err, "failed to reserve secret name")
		}
		if !reserved {
			return domain.ErrNameTaken
		}
	}

	data, err := json.Marshal(secret)
	if err != nil {
		if renamed {
			r.releaseName(ctx, newField)
		}
		return apperrors.Wrap(err, "failed to encode secret record")
	}

	if err := r.client.Set(ctx, recordKey(secret.ID), data, 0).Err(); err != nil {
		if renamed {
			r.releaseName(ctx, newField)
		}
		return apperrors.Wrap(err, "failed to write secret record")
	}

	if renamed {
		r.releaseName(ctx, oldField)
	}

	return nil
}

// Delete removes a secret record and its name-index entry. Returns
// ErrSecretNotFound when no record exists for the id.
func (r *RedisSecretRepository) Delete(ctx context.Context, id string) error {
	secret, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, recordKey(id))
	pipe.HDel(ctx, nameIndexKey, indexField(secret.Name))
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.Wrap(err, "failed to delete secret record")
	}

	return nil
}

// List returns every stored secret record, in unspecified order. It iterates
// the keyspace with cursor-based SCAN (never KEYS) and fetches records in
// pipelined batches. Records that fail to decode are skipped and logged
// rather than failing the whole listing.
func (r *RedisSecretRepository) List(ctx context.Context) ([]*domain.Secret, error) {
	var keys []string

	iter := r.client.Scan(ctx, 0, recordKeyPrefix+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if key == nameIndexKey {
			continue
		}
		keys = append(keys, key)
	}
	if err := iter.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to scan secret keys")
	}

	if len(keys) == 0 {
		return nil, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(keys))
	for i, key := range keys {
		cmds[i] = pipe.Get(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, apperrors.Wrap(err, "failed to fetch secret records")
	}

	secrets := make([]*domain.Secret, 0, len(keys))
	for i, cmd := range cmds {
		data, err := cmd.Bytes()
		if err != nil {
			// Key deleted between SCAN and GET
			continue
		}

		var secret domain.Secret
		if err := json.Unmarshal(data, &secret); err != nil {
			if r.logger != nil {
				r.logger.Warn("skipping undecodable secret record",
					slog.String("key", keys[i]),
					slog.Any("error", err),
				)
			}
			continue
		}
		secrets = append(secrets, &secret)
	}

	return secrets, nil
}

// GetIDByName resolves a secret name (case-insensitively) to its id via the
// name index. Returns ErrSecretNotFound when the name is unused.
func (r *RedisSecretRepository) GetIDByName(ctx context.Context, name string) (string, error) {
	id, err := r.client.HGet(ctx, nameIndexKey, indexField(name)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", domain.ErrSecretNotFound
		}
		return "", apperrors.Wrap(err, "failed to resolve secret name")
	}
	return id, nil
}

// Ping checks connectivity to the backing store.
func (r *RedisSecretRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return apperrors.Wrap(err, "store unreachable")
	}
	return nil
}

// releaseName drops a name-index reservation. Used for rollback; failures are
// logged and otherwise ignored since the caller is already on an error path.
func (r *RedisSecretRepository) releaseName(ctx context.Context, field string) {
	if err := r.client.HDel(ctx, nameIndexKey, field).Err(); err != nil && r.logger != nil {
		r.logger.Warn("failed to release secret name reservation",
			slog.String("name", field),
			slog.Any("error", err),
		)
	}
}
