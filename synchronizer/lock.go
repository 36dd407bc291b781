package synchronizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/notewell/synckit"
)

// The lock is advisory: backends enforce nothing, so every cooperating
// client must check for and honor it. A lock older than its TTL is
// considered stale and may be stolen.
const lockKey = reservedPrefix + "/lock.json"

// ErrLocked is returned when another client holds a live sync lock.
var ErrLocked = errors.New("synchronizer: sync target is locked by another client")

type lockMetadata struct {
	ClientID  string        `json:"clientId"`
	AppType   string        `json:"appType"`
	CreatedAt time.Time     `json:"createdAt"`
	TTL       time.Duration `json:"ttl"`
}

func (s *Synchronizer) acquireLock(ctx context.Context) error {
	data, err := s.api.GetBytes(ctx, lockKey)
	switch {
	case errors.Is(err, synckit.ErrNotExist):
		// lock is free
	case err != nil:
		return fmt.Errorf("synchronizer: error reading sync lock: %w", err)
	default:
		var meta lockMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			s.logger.Warn("Replacing unreadable sync lock", "error", err)
		} else if meta.ClientID != s.clientID {
			stale := meta.TTL > 0 && time.Now().After(meta.CreatedAt.Add(meta.TTL))
			if !stale {
				return fmt.Errorf("%w: held by client %s since %s",
					ErrLocked, meta.ClientID, meta.CreatedAt.Format(time.RFC3339))
			}
			s.logger.Warn("Stealing stale sync lock",
				"holder", meta.ClientID, "createdAt", meta.CreatedAt)
		}
	}

	meta := lockMetadata{
		ClientID:  s.clientID,
		AppType:   s.appType,
		CreatedAt: time.Now().UTC(),
		TTL:       s.lockTTL,
	}
	data, err = json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("synchronizer: error encoding sync lock: %w", err)
	}
	if err := s.api.PutBytes(ctx, lockKey, data); err != nil {
		return fmt.Errorf("synchronizer: error writing sync lock: %w", err)
	}
	return nil
}

// releaseLock removes the lock file. A failed release only warns: the TTL
// bounds how long a leaked lock can block other clients.
func (s *Synchronizer) releaseLock(ctx context.Context) {
	if err := s.api.Delete(ctx, lockKey); err != nil {
		s.logger.Warn("Error releasing sync lock", "error", err)
	}
}
