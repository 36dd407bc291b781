package synckit

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type errorsTestSuite struct {
	suite.Suite
}

func (s *errorsTestSuite) TestRemoteErrorMessage() {
	tests := []struct {
		name     string
		err      error
		code     string
		expected string
	}{
		{"with code", errors.New("access denied"), "AccessDenied", "access denied (Code AccessDenied)"},
		{"without code", errors.New("connection reset"), "", "connection reset"},
		{"network code", errors.New("dial tcp: no route to host"), "NetworkingError", "dial tcp: no route to host (Code NetworkingError)"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			re := NewRemoteError(tt.err, tt.code)
			s.Equal(tt.expected, re.Error())
			s.Equal(tt.code, re.Code())
		})
	}
}

func (s *errorsTestSuite) TestRemoteErrorNil() {
	s.Nil(NewRemoteError(nil, "AccessDenied"))
}

func (s *errorsTestSuite) TestRemoteErrorUnwrap() {
	underlying := errors.New("no such bucket")
	re := NewRemoteError(fmt.Errorf("head bucket: %w", underlying), "NoSuchBucket")
	s.Require().ErrorIs(re, underlying)

	var target *RemoteError
	s.Require().ErrorAs(fmt.Errorf("probe failed: %w", re), &target)
	s.Equal("NoSuchBucket", target.Code())
}

func (s *errorsTestSuite) TestConfigError() {
	err := NewConfigError("no valid credentials specified")
	s.Equal("no valid credentials specified", err.Error())

	var ce *ConfigError
	s.Require().ErrorAs(fmt.Errorf("building client: %w", err), &ce)
}

func (s *errorsTestSuite) TestErrNotExist() {
	s.Equal("object does not exist", ErrNotExist.Error())
	s.Require().ErrorIs(fmt.Errorf("stat notes/a.md: %w", ErrNotExist), ErrNotExist)
}

func TestErrors(t *testing.T) {
	suite.Run(t, new(errorsTestSuite))
}
