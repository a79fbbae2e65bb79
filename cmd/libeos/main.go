// Command libeos builds the C shared library of the log-likelihood engine:
//
//	go build -buildmode=c-shared -o libeos.so ./cmd/libeos
//
// Functions returning char* return NULL on success and an error message
// otherwise. The caller owns the message and releases it with
// EOS_free_string (or free).
package main

/*
#include <stdint.h>
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"

	"github.com/aretw0/eos/pkg/capi"
)

func cstring(msg *string) *C.char {
	if msg == nil {
		return nil
	}
	return C.CString(*msg)
}

//export EOS_LogLikelihood_new
func EOS_LogLikelihood_new() C.uint64_t {
	return C.uint64_t(capi.New())
}

//export EOS_LogLikelihood_delete
func EOS_LogLikelihood_delete(h C.uint64_t) {
	capi.Delete(capi.Handle(h))
}

//export EOS_LogLikelihood_add_constraint_by_name
func EOS_LogLikelihood_add_constraint_by_name(h C.uint64_t, name, options *C.char) *C.char {
	return cstring(capi.AddConstraintByName(capi.Handle(h), C.GoString(name), C.GoString(options)))
}

//export EOS_LogLikelihood_add_gaussian_constraint
func EOS_LogLikelihood_add_gaussian_constraint(h C.uint64_t, observable *C.char, min, central, max C.double, observations C.int, kinematics, options *C.char) *C.char {
	return cstring(capi.AddGaussianConstraint(
		capi.Handle(h),
		C.GoString(observable),
		float64(min), float64(central), float64(max),
		int(observations),
		C.GoString(kinematics),
		C.GoString(options),
	))
}

//export EOS_LogLikelihood_set_parameter
func EOS_LogLikelihood_set_parameter(h C.uint64_t, name *C.char, value C.double) *C.char {
	return cstring(capi.SetParameter(capi.Handle(h), C.GoString(name), float64(value)))
}

// EOS_LogLikelihood_evaluate stores the log likelihood in *result.
//
//export EOS_LogLikelihood_evaluate
func EOS_LogLikelihood_evaluate(h C.uint64_t, result *C.double) *C.char {
	value, msg := capi.Evaluate(capi.Handle(h))
	if msg == nil && result != nil {
		*result = C.double(value)
	}
	return cstring(msg)
}

//export EOS_free_string
func EOS_free_string(s *C.char) {
	C.free(unsafe.Pointer(s))
}

func main() {}
