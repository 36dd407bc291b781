package synchronizer

import (
	"context"
	"encoding/json"
	"time"
)

func (s *synchronizerTestSuite) seedLock(meta lockMetadata) {
	data, err := json.Marshal(meta)
	s.Require().NoError(err)
	s.driver.set(lockKey, string(data), time.Now())
}

func (s *synchronizerTestSuite) TestLockBlocksOtherClients() {
	s.seedLock(lockMetadata{
		ClientID:  "client-b",
		AppType:   "desktop",
		CreatedAt: time.Now().UTC(),
		TTL:       5 * time.Minute,
	})
	s.writeLocal("a.md", "alpha")

	_, err := s.sync.Sync(context.Background(), s.dir)
	s.Require().ErrorIs(err, ErrLocked)
	s.ErrorContains(err, "client-b")

	_, ok := s.driver.get("a.md")
	s.False(ok, "no transfer may run while the target is locked")

	data, ok := s.driver.get(lockKey)
	s.Require().True(ok, "the foreign lock must stay in place")
	var meta lockMetadata
	s.Require().NoError(json.Unmarshal([]byte(data), &meta))
	s.Equal("client-b", meta.ClientID)
}

func (s *synchronizerTestSuite) TestStaleLockIsStolen() {
	s.seedLock(lockMetadata{
		ClientID:  "client-b",
		CreatedAt: time.Now().UTC().Add(-10 * time.Minute),
		TTL:       5 * time.Minute,
	})
	s.writeLocal("a.md", "alpha")

	report := s.run()
	s.Equal(1, report.Uploaded)

	_, ok := s.driver.get(lockKey)
	s.False(ok, "the stolen lock should be released at the end")
}

func (s *synchronizerTestSuite) TestZeroTTLLockNeverGoesStale() {
	s.seedLock(lockMetadata{
		ClientID:  "client-b",
		CreatedAt: time.Now().UTC().Add(-24 * time.Hour),
	})

	_, err := s.sync.Sync(context.Background(), s.dir)
	s.ErrorIs(err, ErrLocked)
}

func (s *synchronizerTestSuite) TestOwnLockIsReentrant() {
	s.seedLock(lockMetadata{
		ClientID:  "client-a",
		CreatedAt: time.Now().UTC(),
		TTL:       5 * time.Minute,
	})
	s.writeLocal("a.md", "alpha")

	report := s.run()
	s.Equal(1, report.Uploaded)
}

func (s *synchronizerTestSuite) TestUnreadableLockIsReplaced() {
	s.driver.set(lockKey, "not json", time.Now())
	s.writeLocal("a.md", "alpha")

	report := s.run()
	s.Equal(1, report.Uploaded)
}
