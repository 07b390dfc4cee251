// Package interpret walks the generic tree of one registry record and emits
// typed relationship facts. The registry schema evolves; sections with
// unrecognized type codes are skipped, never errors.
package interpret

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/prepify/orgraph/internal/model"
	"github.com/prepify/orgraph/internal/orparse"
)

// Record-type codes used by the registry export.
const (
	codeStatutoryBody      = "STATUTARNI_ORGAN"
	codeStatutoryMember    = "STATUTARNI_ORGAN_CLEN"
	codeShareholders       = "SPOLECNIK"
	codeShareholderNatural = "SPOLECNIK_OSOBA"
	codeShareholderLegal   = "SPOLECNIK_PRAVNICKA_OSOBA"
	codeRegisteredAddress  = "SIDLO"
)

const (
	keyTypeCode    = "udajTyp"
	keyCode        = "kod"
	keySubRecords  = "podudaje"
	keyPerson      = "osoba"
	keyLegalEntity = "pravnickaOsoba"
	keyGivenName   = "jmeno"
	keySurname     = "prijmeni"
	keyBirthDate   = "narozDatum"
	keyFunction    = "funkce"
	keyFuncName    = "nazev"
	keyRegistryNo  = "ico"
	keyAddress     = "adresa"
	keyCity        = "obec"
	keyRemovalDate = "vymazDatum"
)

var titleCaser = cases.Title(language.Czech)

// Facts extracts the ordered sequence of facts from the parsed structured
// field of one company record. The root is the list of record sections, or a
// single section map.
func Facts(registryID string, root *orparse.Value) []model.Fact {
	var facts []model.Fact
	addressSeen := false

	for _, sec := range recordSections(root) {
		switch sec.code {
		case codeStatutoryBody:
			facts = append(facts, executiveFacts(registryID, sec.node)...)
		case codeShareholders:
			facts = append(facts, shareholderFacts(registryID, sec.node)...)
		case codeRegisteredAddress:
			if addressSeen || removed(sec.node) {
				continue
			}
			if f, ok := addressFact(registryID, sec.node); ok {
				facts = append(facts, f)
				addressSeen = true
			}
		}
	}
	return facts
}

// section is one typed record section. The registry delivers two shapes: the
// export form, a map carrying its type under udajTyp={kod=...}, and the
// compact form, where the type code is the map key itself
// ({STATUTARNI_ORGAN={...}}). The compact keys cannot collide with the export
// shape, whose keys are udajTyp/podudaje/adresa.
type section struct {
	code string
	node *orparse.Value
}

func recordSections(root *orparse.Value) []section {
	var out []section
	for _, s := range rawSections(root) {
		if code := typeCode(s); code != "" {
			out = append(out, section{code: code, node: s})
			continue
		}
		if s.Kind != orparse.KindMap {
			continue
		}
		for _, e := range s.Entries {
			switch e.Key {
			case codeStatutoryBody, codeShareholders, codeRegisteredAddress:
				out = append(out, section{code: e.Key, node: e.Value})
			}
		}
	}
	return out
}

func rawSections(root *orparse.Value) []*orparse.Value {
	if root == nil {
		return nil
	}
	switch root.Kind {
	case orparse.KindList:
		return root.Items
	case orparse.KindMap:
		return []*orparse.Value{root}
	}
	return nil
}

func typeCode(sec *orparse.Value) string {
	t := sec.Get(keyTypeCode)
	if t == nil || t.Kind != orparse.KindMap {
		return ""
	}
	return t.Str(keyCode)
}

// removed reports whether the sub-record carries a deletion date. The flag is
// read off the member itself, never inherited from the parent section.
func removed(v *orparse.Value) bool {
	d := v.Get(keyRemovalDate)
	if d == nil {
		return false
	}
	if d.Kind == orparse.KindScalar && strings.TrimSpace(d.Text) == "" {
		return false
	}
	return true
}

// members returns the sub-records of a section. A compact section carries the
// member fields directly instead of a podudaje list and is its own single
// member.
func members(sec *orparse.Value) []*orparse.Value {
	sub := sec.Get(keySubRecords)
	if sub == nil || sub.Kind != orparse.KindList {
		if sec.Has(keyPerson) || sec.Has(keyLegalEntity) {
			return []*orparse.Value{sec}
		}
		return nil
	}
	return sub.Items
}

func executiveFacts(registryID string, sec *orparse.Value) []model.Fact {
	var facts []model.Fact
	for _, member := range members(sec) {
		if member.Kind != orparse.KindMap {
			continue
		}
		if code := typeCode(member); code != codeStatutoryMember && !(code == "" && member.Has(keyPerson)) {
			continue
		}
		person, ok := personOf(member)
		if !ok {
			continue
		}
		facts = append(facts, model.Fact{
			Kind:             model.FactExecutive,
			SubjectCompanyID: registryID,
			Person:           person,
			Role:             roleOf(member),
			Active:           !removed(member),
		})
	}
	return facts
}

func shareholderFacts(registryID string, sec *orparse.Value) []model.Fact {
	var facts []model.Fact
	for _, member := range members(sec) {
		if member.Kind != orparse.KindMap {
			continue
		}
		active := !removed(member)

		// The member is either a natural person (nested person
		// sub-structure) or a legal entity (bare registry-number
		// reference); probe once and branch. Compact members carry no
		// wrapper, so the payload shape decides.
		code := typeCode(member)
		if code == "" {
			switch {
			case member.Has(keyPerson):
				code = codeShareholderNatural
			case member.Has(keyLegalEntity):
				code = codeShareholderLegal
			}
		}
		switch code {
		case codeShareholderNatural:
			person, ok := personOf(member)
			if !ok {
				continue
			}
			facts = append(facts, model.Fact{
				Kind:             model.FactShareholderNatural,
				SubjectCompanyID: registryID,
				Person:           person,
				Active:           active,
			})
		case codeShareholderLegal:
			legal := member.Get(keyLegalEntity)
			if legal == nil || legal.Kind != orparse.KindMap {
				continue
			}
			ref := legal.Str(keyRegistryNo)
			if ref == "" {
				continue
			}
			facts = append(facts, model.Fact{
				Kind:             model.FactShareholderLegal,
				SubjectCompanyID: registryID,
				LegalEntityRef:   ref,
				Active:           active,
			})
		}
	}
	return facts
}

func addressFact(registryID string, sec *orparse.Value) (model.Fact, bool) {
	addr := sec.Get(keyAddress)
	if addr == nil || addr.Kind != orparse.KindMap {
		return model.Fact{}, false
	}
	city := addr.Str(keyCity)
	if city == "" {
		return model.Fact{}, false
	}
	return model.Fact{
		Kind:             model.FactRegisteredAddress,
		SubjectCompanyID: registryID,
		City:             city,
		Active:           true,
	}, true
}

// personOf reads the nested person sub-structure. Members without a surname
// are skipped. Name fields arrive upper-cased from the registry and are
// normalized to title case here; identifier derivation is case-insensitive so
// nothing is lost.
func personOf(member *orparse.Value) (*model.Person, bool) {
	osoba := member.Get(keyPerson)
	if osoba == nil || osoba.Kind != orparse.KindMap {
		return nil, false
	}
	surname := osoba.Str(keySurname)
	if surname == "" {
		return nil, false
	}
	return &model.Person{
		Surname:   titleCaser.String(surname),
		GivenName: titleCaser.String(osoba.Str(keyGivenName)),
		BirthDate: osoba.Str(keyBirthDate),
	}, true
}

// roleOf resolves the function label, which is delivered either as a plain
// scalar ("Jednatel") or as a map with a nazev field.
func roleOf(member *orparse.Value) string {
	f := member.Get(keyFunction)
	if f != nil {
		switch f.Kind {
		case orparse.KindScalar:
			if text := strings.TrimSpace(f.Text); text != "" {
				return text
			}
		case orparse.KindMap:
			if name := f.Str(keyFuncName); name != "" {
				return name
			}
		}
	}
	return model.RelExecutiveDefault
}
