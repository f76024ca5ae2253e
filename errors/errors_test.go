package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:     PhaseEncode,
				Kind:      KindValueOutOfRange,
				Path:      []string{"stats", "2"},
				FieldType: "uint8",
				Feature:   "mintable",
				Detail:    "too wide",
			},
			contains: []string{"[encode]", "value_out_of_range", "stats.2", "type uint8", "feature mintable", "too wide"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseLayout,
				Kind:  KindSchemaInconsistency,
			},
			contains: []string{"[layout]", "schema_inconsistency"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindInvalidInput,
				Detail: "bad yaml",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[load]", "invalid_input", "bad yaml", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindInvalidInput,
		Cause: cause,
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseStore,
		Kind:  KindNotFound,
		Path:  []string{"refs"},
	}

	if !errors.Is(err, &Error{Phase: PhaseStore, Kind: KindNotFound}) {
		t.Error("errors.Is should match same phase and kind")
	}
	if errors.Is(err, &Error{Phase: PhaseResolve, Kind: KindNotFound}) {
		t.Error("Is should not match different phase")
	}
	if errors.Is(err, &Error{Phase: PhaseStore, Kind: KindOutOfBounds}) {
		t.Error("Is should not match different kind")
	}
}

func TestIsKind(t *testing.T) {
	base := Unmet("dynamic-reflib", "a cardinality-0 literef field")

	if !IsKind(base, KindUnmetPrecondition) {
		t.Error("IsKind should match direct error")
	}
	if !IsKind(fmt.Errorf("compile: %w", base), KindUnmetPrecondition) {
		t.Error("IsKind should see through fmt wrapping")
	}
	if !IsKind(Wrap(PhaseCompile, KindInvalidInput, base, "resolve features"), KindUnmetPrecondition) {
		t.Error("IsKind should follow Cause")
	}
	if IsKind(base, KindNotFound) {
		t.Error("IsKind should not match other kinds")
	}
	if IsKind(nil, KindNotFound) {
		t.Error("IsKind(nil) should be false")
	}
	if IsKind(errors.New("plain"), KindNotFound) {
		t.Error("IsKind should not match plain errors")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseEncode, KindValueOutOfRange).
		Path("level").
		FieldType("uint8").
		Feature("patch").
		Value(300).
		Cause(cause).
		Detail("expected at most %d bits, got %d", 8, 9).
		Build()

	if err.Phase != PhaseEncode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseEncode)
	}
	if err.Kind != KindValueOutOfRange {
		t.Errorf("Kind = %v, want %v", err.Kind, KindValueOutOfRange)
	}
	if len(err.Path) != 1 || err.Path[0] != "level" {
		t.Errorf("Path = %v, want [level]", err.Path)
	}
	if err.FieldType != "uint8" {
		t.Errorf("FieldType = %v, want uint8", err.FieldType)
	}
	if err.Feature != "patch" {
		t.Errorf("Feature = %v, want patch", err.Feature)
	}
	if err.Value != 300 {
		t.Errorf("Value = %v, want 300", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected at most 8 bits, got 9" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind Kind
	}{
		{"OutOfRange", OutOfRange(PhaseEncode, []string{"x"}, 300, "uint8"), KindValueOutOfRange},
		{"Unsupported", Unsupported(PhaseLayout, []string{"bio"}, "string", "not packable"), KindUnsupportedFieldType},
		{"Inconsistent", Inconsistent(PhaseCompile, nil, "stale layout"), KindSchemaInconsistency},
		{"TypeMismatch", TypeMismatch(PhaseEncode, []string{"x"}, "bool", "uint8"), KindTypeMismatch},
		{"FieldMissing", FieldMissing(PhaseEncode, "name"), KindFieldMissing},
		{"FieldUnknown", FieldUnknown(PhaseEncode, "extra"), KindFieldUnknown},
		{"OutOfBounds", OutOfBounds(PhaseStore, nil, 10, 5), KindOutOfBounds},
		{"NotFound", NotFound(PhaseStore, "reference", uint64(7)), KindNotFound},
		{"AlreadyPopulated", AlreadyPopulated(PhaseStore, 3), KindAlreadyPopulated},
		{"Incompatible", Incompatible("literef", "weakref"), KindIncompatibleFeatures},
		{"Unmet", Unmet("reversible", "a patch feature"), KindUnmetPrecondition},
		{"InvalidInput", InvalidInput(PhaseValidate, []string{"key"}, "reserved"), KindInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
			if tt.err.Error() == "" {
				t.Error("empty message")
			}
		})
	}

	t.Run("Incompatible names both", func(t *testing.T) {
		msg := Incompatible("literef", "weakref").Error()
		if !strings.Contains(msg, "literef") || !strings.Contains(msg, "weakref") {
			t.Errorf("message %q should name both features", msg)
		}
	})
}

func TestValidationError(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var v ValidationError
		if v.Err() != nil {
			t.Error("Err() should be nil with no problems")
		}
	})

	t.Run("single", func(t *testing.T) {
		var v ValidationError
		v.Add(InvalidInput(PhaseValidate, []string{"a"}, "duplicate key"))
		if got := v.Err().Error(); !strings.Contains(got, "duplicate key") || strings.Contains(got, "problem(s)") {
			t.Errorf("single problem message = %q", got)
		}
	})

	t.Run("multiple", func(t *testing.T) {
		var v ValidationError
		v.Add(InvalidInput(PhaseValidate, []string{"a"}, "duplicate key"))
		v.Add(Unsupported(PhaseValidate, []string{"b"}, "string", "string arrays are not allowed"))
		err := v.Err()
		if !strings.Contains(err.Error(), "2 problem(s)") {
			t.Errorf("message = %q, want problem count", err.Error())
		}
		if !IsKind(err, KindUnsupportedFieldType) {
			t.Error("IsKind should find the second problem")
		}
		if !errors.Is(err, &Error{Phase: PhaseValidate, Kind: KindInvalidInput}) {
			t.Error("errors.Is should find the first problem")
		}
	})
}
