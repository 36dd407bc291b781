package utils

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type utilsTestSuite struct {
	suite.Suite
}

func (s *utilsTestSuite) TestRemoveTrailingSlash() {
	tests := []struct {
		path     string
		expected string
	}{
		{"/some/path", "/some/path"},
		{"/some/path/", "/some/path"},
		{"/some/path///", "/some/path"},
		{"", ""},
	}
	for _, tt := range tests {
		s.Equal(tt.expected, RemoveTrailingSlash(tt.path), "RemoveTrailingSlash(%q)", tt.path)
	}
}

func (s *utilsTestSuite) TestRemoveLeadingSlash() {
	tests := []struct {
		path     string
		expected string
	}{
		{"some/path/", "some/path/"},
		{"/some/path/", "some/path/"},
		{"///some/path/", "some/path/"},
		{"", ""},
	}
	for _, tt := range tests {
		s.Equal(tt.expected, RemoveLeadingSlash(tt.path), "RemoveLeadingSlash(%q)", tt.path)
	}
}

func (s *utilsTestSuite) TestEnsureTrailingSlash() {
	tests := []struct {
		path     string
		expected string
	}{
		{"some/prefix", "some/prefix/"},
		{"some/prefix/", "some/prefix/"},
		{"", ""},
	}
	for _, tt := range tests {
		s.Equal(tt.expected, EnsureTrailingSlash(tt.path), "EnsureTrailingSlash(%q)", tt.path)
	}
}

func (s *utilsTestSuite) TestJoinKey() {
	tests := []struct {
		segments []string
		expected string
	}{
		{[]string{"notes", "a.md"}, "notes/a.md"},
		{[]string{"", "a.md"}, "a.md"},
		{[]string{"/base/", "/nested/b.md"}, "base/nested/b.md"},
		{[]string{"", ""}, ""},
		{[]string{"base", "sub/", "c.md"}, "base/sub/c.md"},
	}
	for _, tt := range tests {
		s.Equal(tt.expected, JoinKey(tt.segments...), "JoinKey(%v)", tt.segments)
	}
}

func (s *utilsTestSuite) TestValidateKey() {
	s.NoError(ValidateKey("notes/a.md"))
	s.NoError(ValidateKey("a.md"))
	s.Error(ValidateKey(""))
	s.Error(ValidateKey("/notes/a.md"))
	s.Error(ValidateKey("../escape.md"))
	s.Error(ValidateKey("notes/../../escape.md"))
}

func (s *utilsTestSuite) TestPrefixMatch() {
	s.True(PrefixMatch("notes/a.md", ""))
	s.True(PrefixMatch("notes/a.md", "notes/"))
	s.True(PrefixMatch("notes/a.md", "notes"))
	s.True(PrefixMatch("notes", "notes"))
	s.False(PrefixMatch("todo/a.md", "notes/"))
	s.False(PrefixMatch("notes-archive/a.md", "notes"))
}

func TestUtils(t *testing.T) {
	suite.Run(t, new(utilsTestSuite))
}
