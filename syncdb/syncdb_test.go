package syncdb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type syncdbTestSuite struct {
	suite.Suite

	dir string
}

func (s *syncdbTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func (s *syncdbTestSuite) dbPath() string {
	return filepath.Join(s.dir, "sync.json")
}

func (s *syncdbTestSuite) TestOpenMissingFile() {
	db, err := Open(s.dbPath())
	s.Require().NoError(err)
	s.Zero(db.Len())
	s.Equal(s.dbPath(), db.Path())
}

func (s *syncdbTestSuite) TestRoundTrip() {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	db, err := Open(s.dbPath())
	s.Require().NoError(err)

	db.SetRecord(Record{Path: "notes/b.md", Size: 10, ModTime: now, RemoteTime: now, SyncTime: now})
	db.SetRecord(Record{Path: "notes/a.md", Size: 20, ModTime: now.Add(-time.Hour), RemoteTime: now, SyncTime: now})
	s.Require().NoError(db.Save())

	reopened, err := Open(s.dbPath())
	s.Require().NoError(err)
	s.Equal(2, reopened.Len())

	rec, ok := reopened.Record("notes/a.md")
	s.Require().True(ok)
	s.Equal(int64(20), rec.Size)
	s.True(rec.ModTime.Equal(now.Add(-time.Hour)))
	s.True(rec.RemoteTime.Equal(now))

	recs := reopened.Records()
	s.Require().Len(recs, 2)
	s.Equal("notes/a.md", recs[0].Path, "records should come back sorted by path")
	s.Equal("notes/b.md", recs[1].Path)
}

func (s *syncdbTestSuite) TestSetReplacesExisting() {
	db, err := Open(s.dbPath())
	s.Require().NoError(err)

	db.SetRecord(Record{Path: "a.md", Size: 1})
	db.SetRecord(Record{Path: "a.md", Size: 2})
	s.Equal(1, db.Len())

	rec, ok := db.Record("a.md")
	s.Require().True(ok)
	s.Equal(int64(2), rec.Size)
}

func (s *syncdbTestSuite) TestDeleteRecord() {
	db, err := Open(s.dbPath())
	s.Require().NoError(err)

	db.SetRecord(Record{Path: "a.md"})
	db.DeleteRecord("a.md")
	s.Zero(db.Len())

	// deleting an absent record is a no-op
	db.DeleteRecord("never-existed.md")
	s.Zero(db.Len())
}

func (s *syncdbTestSuite) TestOpenEmptyFile() {
	s.Require().NoError(os.WriteFile(s.dbPath(), nil, 0644))

	db, err := Open(s.dbPath())
	s.Require().NoError(err)
	s.Zero(db.Len())
}

func (s *syncdbTestSuite) TestOpenCorruptFile() {
	s.Require().NoError(os.WriteFile(s.dbPath(), []byte("{not json"), 0644))

	_, err := Open(s.dbPath())
	s.Error(err)
	s.ErrorContains(err, "error parsing sync database")
}

func (s *syncdbTestSuite) TestOpenNewerVersion() {
	s.Require().NoError(os.WriteFile(s.dbPath(), []byte(`{"version": 99, "records": []}`), 0644))

	_, err := Open(s.dbPath())
	s.Error(err)
	s.ErrorContains(err, "newer than supported")
}

func (s *syncdbTestSuite) TestSaveCreatesParentDir() {
	nested := filepath.Join(s.dir, "deeply", "nested", "sync.json")

	db, err := Open(nested)
	s.Require().NoError(err)
	db.SetRecord(Record{Path: "a.md"})
	s.Require().NoError(db.Save())

	_, err = os.Stat(nested)
	s.NoError(err)
}

func TestSyncDB(t *testing.T) {
	suite.Run(t, new(syncdbTestSuite))
}
