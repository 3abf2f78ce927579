package variants

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
)

// ErrValidation is returned when allele data does not fit the requested variant category,
// or when a variant does not agree with the backbone it is placed on.
var ErrValidation = errors.New("variant validation failed")

// Kind is the category a variant was constructed as.
type Kind int

const (
	Unknown Kind = iota
	SNV
	Insertion
	Deletion
	Indel
	TandemRepeat
)

func (k Kind) String() string {
	switch k {
	case SNV:
		return "snv"
	case Insertion:
		return "insertion"
	case Deletion:
		return "deletion"
	case Indel:
		return "indel"
	case TandemRepeat:
		return "tandem_repeat"
	default:
		return "unknown"
	}
}

// ParseKind maps a lower-case category name back to its Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "snv":
		return SNV, nil
	case "insertion":
		return Insertion, nil
	case "deletion":
		return Deletion, nil
	case "indel":
		return Indel, nil
	case "tandem_repeat":
		return TandemRepeat, nil
	case "", "unknown":
		return Unknown, nil
	}
	return Unknown, errors.Wrapf(ErrValidation, "unknown variant kind %q", s)
}

// Variant is one alteration of the backbone. It is immutable once constructed.
type Variant struct {
	source   int
	kind     Kind
	position int
	ref      []byte
	alt      []byte
	refIndex int
	altIndex int
}

// New creates a variant without category-specific checks.
// Either allele may be empty (a pure insertion or a pure deletion), but the two must differ.
func New(source, position int, ref, alt []byte, refIndex, altIndex int) (*Variant, error) {
	if err := checkCommon(position, ref, alt, refIndex, altIndex); err != nil {
		return nil, err
	}
	return newVariant(Unknown, source, position, ref, alt, refIndex, altIndex), nil
}

// NewSNV creates a single-nucleotide variant; both alleles are exactly one byte.
func NewSNV(source, position int, ref, alt []byte, refIndex, altIndex int) (*Variant, error) {
	if err := checkCommon(position, ref, alt, refIndex, altIndex); err != nil {
		return nil, err
	}
	if len(ref) != 1 || len(alt) != 1 {
		return nil, errors.Wrapf(ErrValidation, "snv at %d: alleles must be one byte, got %d and %d", position, len(ref), len(alt))
	}
	return newVariant(SNV, source, position, ref, alt, refIndex, altIndex), nil
}

// NewInsertion creates an insertion anchored on the shared first base, e.g. A -> ACT.
func NewInsertion(source, position int, ref, alt []byte, refIndex, altIndex int) (*Variant, error) {
	if err := checkCommon(position, ref, alt, refIndex, altIndex); err != nil {
		return nil, err
	}
	if len(ref) == 0 || len(alt) <= len(ref) {
		return nil, errors.Wrapf(ErrValidation, "insertion at %d: alt must be longer than a non-empty ref", position)
	}
	if ref[0] != alt[0] {
		return nil, errors.Wrapf(ErrValidation, "insertion at %d: alleles must share the anchor base", position)
	}
	return newVariant(Insertion, source, position, ref, alt, refIndex, altIndex), nil
}

// NewDeletion creates a deletion anchored on the shared first base, e.g. ACT -> A.
func NewDeletion(source, position int, ref, alt []byte, refIndex, altIndex int) (*Variant, error) {
	if err := checkCommon(position, ref, alt, refIndex, altIndex); err != nil {
		return nil, err
	}
	if len(alt) == 0 || len(ref) <= len(alt) {
		return nil, errors.Wrapf(ErrValidation, "deletion at %d: ref must be longer than a non-empty alt", position)
	}
	if ref[0] != alt[0] {
		return nil, errors.Wrapf(ErrValidation, "deletion at %d: alleles must share the anchor base", position)
	}
	return newVariant(Deletion, source, position, ref, alt, refIndex, altIndex), nil
}

// NewIndel creates a complex replacement: both alleles non-empty and at least one longer than a base.
func NewIndel(source, position int, ref, alt []byte, refIndex, altIndex int) (*Variant, error) {
	if err := checkCommon(position, ref, alt, refIndex, altIndex); err != nil {
		return nil, err
	}
	if len(ref) == 0 || len(alt) == 0 {
		return nil, errors.Wrapf(ErrValidation, "indel at %d: alleles must be non-empty", position)
	}
	if len(ref) == 1 && len(alt) == 1 {
		return nil, errors.Wrapf(ErrValidation, "indel at %d: single-base change is an snv", position)
	}
	return newVariant(Indel, source, position, ref, alt, refIndex, altIndex), nil
}

// NewTandemRepeat creates a repeat expansion or contraction over a non-empty reference span.
func NewTandemRepeat(source, position int, ref, alt []byte, refIndex, altIndex int) (*Variant, error) {
	if err := checkCommon(position, ref, alt, refIndex, altIndex); err != nil {
		return nil, err
	}
	if len(ref) == 0 {
		return nil, errors.Wrapf(ErrValidation, "tandem repeat at %d: ref must be non-empty", position)
	}
	return newVariant(TandemRepeat, source, position, ref, alt, refIndex, altIndex), nil
}

// NewOfKind dispatches to the constructor for kind.
func NewOfKind(kind Kind, source, position int, ref, alt []byte, refIndex, altIndex int) (*Variant, error) {
	switch kind {
	case SNV:
		return NewSNV(source, position, ref, alt, refIndex, altIndex)
	case Insertion:
		return NewInsertion(source, position, ref, alt, refIndex, altIndex)
	case Deletion:
		return NewDeletion(source, position, ref, alt, refIndex, altIndex)
	case Indel:
		return NewIndel(source, position, ref, alt, refIndex, altIndex)
	case TandemRepeat:
		return NewTandemRepeat(source, position, ref, alt, refIndex, altIndex)
	default:
		return New(source, position, ref, alt, refIndex, altIndex)
	}
}

func checkCommon(position int, ref, alt []byte, refIndex, altIndex int) error {
	if position < 0 {
		return errors.Wrapf(ErrValidation, "negative position %d", position)
	}
	if refIndex < 0 || altIndex < 0 || refIndex == altIndex {
		return errors.Wrapf(ErrValidation, "position %d: allele indices %d and %d must be distinct and non-negative", position, refIndex, altIndex)
	}
	if bytes.Equal(ref, alt) {
		return errors.Wrapf(ErrValidation, "position %d: ref and alt alleles are identical", position)
	}
	return nil
}

func newVariant(kind Kind, source, position int, ref, alt []byte, refIndex, altIndex int) *Variant {
	return &Variant{
		source:   source,
		kind:     kind,
		position: position,
		ref:      bytes.Clone(ref),
		alt:      bytes.Clone(alt),
		refIndex: refIndex,
		altIndex: altIndex,
	}
}

// SourceIndex is the caller's index for the record the variant came from.
func (v *Variant) SourceIndex() int { return v.source }

// Kind returns the variant category.
func (v *Variant) Kind() Kind { return v.kind }

// Position is the 0-based backbone offset of the first reference byte.
func (v *Variant) Position() int { return v.position }

// RefIndex is the allele index tagging the reference allele.
func (v *Variant) RefIndex() int { return v.refIndex }

// AltIndex is the allele index tagging the alternate allele.
func (v *Variant) AltIndex() int { return v.altIndex }

// RefLen returns the reference allele length; zero for a pure insertion.
func (v *Variant) RefLen() int { return len(v.ref) }

// AltLen returns the alternate allele length; zero for a pure deletion.
func (v *Variant) AltLen() int { return len(v.alt) }

// End is the exclusive end of the reference span.
func (v *Variant) End() int { return v.position + len(v.ref) }

// RefAllele returns a copy of the reference allele.
func (v *Variant) RefAllele() []byte { return bytes.Clone(v.ref) }

// AltAllele returns a copy of the alternate allele.
func (v *Variant) AltAllele() []byte { return bytes.Clone(v.alt) }

// MatchesBackbone checks the reference allele against backbone[Position():End()].
func (v *Variant) MatchesBackbone(backbone []byte) error {
	if v.End() > len(backbone) {
		return errors.Wrapf(ErrValidation, "%s: reference span ends past backbone length %d", v, len(backbone))
	}
	if !bytes.Equal(backbone[v.position:v.End()], v.ref) {
		return errors.Wrapf(ErrValidation, "%s: reference allele does not match backbone %q", v, backbone[v.position:v.End()])
	}
	return nil
}

func (v *Variant) String() string {
	return fmt.Sprintf("%s@%d %q>%q", v.kind, v.position, v.ref, v.alt)
}
