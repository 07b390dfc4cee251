package ingest

import (
	"github.com/prepify/orgraph/internal/graph"
	"github.com/prepify/orgraph/internal/model"
)

// SampleSnapshot builds a small built-in dataset used when real registry data
// is unavailable or disabled. It covers every query feature: persons and
// companies, a foreign ownership chain, insolvent entities, and historical
// (inactive) edges.
func SampleSnapshot() *graph.Snapshot {
	records := []model.RawRecord{
		{
			RegistryID: "45274649",
			Name:       "Avast Software s.r.o.",
			RawField: `[{udajTyp={kod=STATUTARNI_ORGAN};podudaje=[` +
				`{udajTyp={kod=STATUTARNI_ORGAN_CLEN};funkce=Jednatel;osoba={jmeno=JAN;prijmeni=NOVAK;narozDatum=1985-01-15}}]},` +
				`{udajTyp={kod=SIDLO};adresa={obec=Praha}}]`,
		},
		{
			RegistryID: "27116158",
			Name:       "Mall Group a.s.",
			RawField: `[{udajTyp={kod=STATUTARNI_ORGAN};podudaje=[` +
				`{udajTyp={kod=STATUTARNI_ORGAN_CLEN};funkce=Jednatelka;osoba={jmeno=EVA;prijmeni=CERNA;narozDatum=1979-06-02}}]},` +
				`{udajTyp={kod=SPOLECNIK};podudaje=[` +
				`{udajTyp={kod=SPOLECNIK_PRAVNICKA_OSOBA};pravnickaOsoba={ico=45274649}}]},` +
				`{udajTyp={kod=SIDLO};adresa={obec=Praha}}]`,
		},
		{
			RegistryID: "63998505",
			Name:       "Alza.cz a.s.",
			RawField: `[{udajTyp={kod=STATUTARNI_ORGAN};podudaje=[` +
				`{udajTyp={kod=STATUTARNI_ORGAN_CLEN};funkce=Jednatel;osoba={jmeno=JAN;prijmeni=NOVAK;narozDatum=1985-01-15};vymazDatum=2020-03-01},` +
				`{udajTyp={kod=STATUTARNI_ORGAN_CLEN};funkce={nazev=Člen představenstva};osoba={jmeno=PETR;prijmeni=SVOBODA;narozDatum=1971-11-30}}]},` +
				`{udajTyp={kod=SPOLECNIK};podudaje=[` +
				`{udajTyp={kod=SPOLECNIK_OSOBA};osoba={jmeno=PETR;prijmeni=SVOBODA;narozDatum=1971-11-30}}]},` +
				`{udajTyp={kod=SIDLO};adresa={obec=Praha}}]`,
		},
		{
			RegistryID: "12345678",
			Name:       "Bankrot Trading s.r.o.",
			City:       "Brno",
			RawField: `[{udajTyp={kod=SPOLECNIK};podudaje=[` +
				`{udajTyp={kod=SPOLECNIK_OSOBA};osoba={jmeno=PETR;prijmeni=SVOBODA;narozDatum=1971-11-30};vymazDatum=2019-05-20}]}]`,
		},
	}

	a, _ := Assemble(records)

	// Offshore chain and enrichment the collaborators would normally supply.
	a.AddCompany("CY001", "Cyprus Holdings Ltd.", "Nicosia")
	a.SetForeignDetails("CY001", graph.ForeignDetails{Country: "CY"})
	a.AddFact(model.Fact{
		Kind:             model.FactShareholderLegal,
		SubjectCompanyID: "45274649",
		LegalEntityRef:   "CY001",
		Active:           true,
	})
	a.SetInsolvent("12345678", true)

	return a.Snapshot()
}
