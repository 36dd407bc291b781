// Package settings defines the read-only settings capability sync targets
// consume, plus the two Reader implementations the module ships: a viper
// store for real configuration files and a map store for tests and for
// candidate configurations coming out of a UI form.
//
// Target-scoped keys are namespaced by target id:
//
//	sync.8.path
//	sync.8.username
//	sync.8.sharedCredentialFile
//
// Nothing in this module writes settings.
package settings

import (
	"fmt"
	"strconv"

	"github.com/spf13/viper"
)

// Reader is the capability handed to sync targets. Implementations return
// "" or 0 for keys that are unset; targets treat empty and missing alike.
type Reader interface {
	String(key string) string
	Int(key string) int
}

// KeyAppType names the application kind ("desktop", "mobile", "cli") the
// synchronizer reports to the backend.
const KeyAppType = "appType"

// KeyConcurrency bounds the synchronizer's parallel transfers. Unset or
// non-positive values leave the engine default in place.
const KeyConcurrency = "sync.concurrency"

// Field names valid beneath a sync.<id>. namespace.
const (
	FieldPath                 = "path"
	FieldUsername             = "username"
	FieldPassword             = "password"
	FieldURL                  = "url"
	FieldSharedCredentialFile = "sharedCredentialFile"
	FieldProfile              = "profile"
	FieldRegion               = "region"
	FieldRoleARN              = "roleArn"
)

// Key returns the settings key for field scoped to the sync target id, of
// the form "sync.<id>.<field>".
func Key(id int, field string) string {
	return fmt.Sprintf("sync.%d.%s", id, field)
}

// Map is an in-memory Reader. The zero value is usable.
type Map map[string]string

// String returns the value for key, or "" when unset.
func (m Map) String(key string) string {
	return m[key]
}

// Int returns the value for key parsed as an integer, or 0 when unset or
// unparsable.
func (m Map) Int(key string) int {
	n, err := strconv.Atoi(m[key])
	if err != nil {
		return 0
	}
	return n
}

// FromViper adapts a viper instance to Reader.
func FromViper(v *viper.Viper) Reader {
	return viperReader{v: v}
}

type viperReader struct {
	v *viper.Viper
}

func (r viperReader) String(key string) string {
	return r.v.GetString(key)
}

func (r viperReader) Int(key string) int {
	return r.v.GetInt(key)
}
