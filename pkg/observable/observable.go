// Package observable defines the contract every computed physical quantity
// implements, and the trivial parameter-backed Stub.
package observable

import (
	"strconv"
	"strings"

	"github.com/aretw0/eos/pkg/domain"
	"github.com/aretw0/eos/pkg/parameters"
)

// Observable is a named, stateful function of one parameter store, one
// kinematics point and one options bag.
//
// Clone returns an observable bound to a fresh clone of the store, so the two
// evolve independently. CloneWith binds to the given store; passing the
// observable's own store yields a second observable sharing its parameters.
type Observable interface {
	parameters.User

	Name() string
	Evaluate() float64

	Parameters() *parameters.Parameters
	Kinematics() domain.Kinematics
	Options() domain.Options

	Clone() Observable
	CloneWith(p *parameters.Parameters) (Observable, error)
}

// Key identifies an observable by name, kinematics and options. Two observables
// with equal keys bound to the same store always evaluate to the same value.
func Key(o Observable) string {
	return MakeKey(o.Name(), o.Kinematics(), o.Options())
}

// keyEscaper escapes the separators of a key inside its components, so that
// distinct name, kinematics and options always yield distinct keys.
var keyEscaper = strings.NewReplacer(`\`, `\\`, `@`, `\@`, `,`, `\,`, `=`, `\=`)

// MakeKey builds the identity of an observable that has not been constructed yet.
func MakeKey(name string, k domain.Kinematics, o domain.Options) string {
	var sb strings.Builder
	sb.WriteString(keyEscaper.Replace(name))

	sb.WriteByte('@')
	for i, v := range k.Names() {
		if i > 0 {
			sb.WriteByte(',')
		}
		value, _ := k.Get(v)
		sb.WriteString(keyEscaper.Replace(v))
		sb.WriteByte('=')
		sb.WriteString(strconv.FormatFloat(value, 'g', -1, 64))
	}

	sb.WriteByte('@')
	for i, key := range o.Keys() {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(keyEscaper.Replace(key))
		sb.WriteByte('=')
		sb.WriteString(keyEscaper.Replace(o.Get(key, "")))
	}
	return sb.String()
}
