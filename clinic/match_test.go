// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clinic

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"k8s.io/utils/ptr"

	"github.com/someonegg/kmmatch"
	"github.com/someonegg/kmmatch/ident"
)

func makePatient(name string, prefs ...string) *Patient {
	return &Patient{Name: name, Prefs: prefs}
}

func makeDoctor(name string, capacity int, aliases ...string) *Doctor {
	return &Doctor{Name: name, Capacity: capacity, Aliases: aliases}
}

func samplePatients() []*Patient {
	return []*Patient{
		makePatient("Sam", "Doctor1", "Doctor3", "Doctor4", "Doctor2"),
		makePatient("Tom", "Doctor2", "Doctor1", "Doctor3", "Doctor4"),
		makePatient("Stella", "Doctor1", "Doctor4", "Doctor2", "Doctor3"),
		makePatient("Tim", "Doctor1", "Doctor4", "Doctor3", "Doctor2"),
		makePatient("David", "Doctor3", "Doctor2", "Doctor1", "Doctor4"),
	}
}

func sampleDoctors() []*Doctor {
	return []*Doctor{
		makeDoctor("Doctor1", 1),
		makeDoctor("Doctor2", 1),
		makeDoctor("Doctor3", 1),
		makeDoctor("Doctor4", 2),
	}
}

var _ = Describe("Matcher", func() {
	Context("init", func() {
		It("applies defaults", func() {
			m := &Matcher{}
			m.init()
			Expect(m.strategy).To(Equal(DefaultStrategy))
			Expect(m.strict).To(Equal(DefaultStrictPrefs))
		})

		It("keeps explicit options", func() {
			m := &Matcher{
				Strategy:    ptr.To(kmmatch.StrategyGreedy),
				StrictPrefs: ptr.To(true),
			}
			m.init()
			Expect(m.strategy).To(Equal(kmmatch.StrategyGreedy))
			Expect(m.strict).To(BeTrue())
		})
	})

	Context("with the sample clinic", func() {
		It("finds the optimal allocation", func() {
			m := &Matcher{Logger: testLogger, Verbose: true}
			allocs, explains, summary, err := m.Match(samplePatients(), sampleDoctors())
			Expect(err).NotTo(HaveOccurred())

			Expect(allocs).To(Equal([]*Alloc{
				{Doctor: "Doctor1", Capacity: 1, Patients: []string{"Sam"}},
				{Doctor: "Doctor2", Capacity: 1, Patients: []string{"Tom"}},
				{Doctor: "Doctor3", Capacity: 1, Patients: []string{"David"}},
				{Doctor: "Doctor4", Capacity: 2, Patients: []string{"Stella", "Tim"}},
			}))

			Expect(explains).To(HaveLen(5))
			Expect(*explains[2]).To(Equal(Explanation{
				Patient: "Stella", Doctor: "Doctor4", Rank: 2, Ranked: true, Score: 3,
			}))

			Expect(summary).To(Equal(Summary{
				PatientsCount: 5,
				DoctorsCount:  4,
				SlotsCount:    5,
				Score:         18,
				MaxScore:      20,
				FirstChoices:  3,
				Unranked:      0,
			}))
		})

		It("scores greedy no higher than optimal", func() {
			greedy := &Matcher{Strategy: ptr.To(kmmatch.StrategyGreedy)}
			_, _, gs, err := greedy.Match(samplePatients(), sampleDoctors())
			Expect(err).NotTo(HaveOccurred())

			optimal := &Matcher{}
			_, _, ps, err := optimal.Match(samplePatients(), sampleDoctors())
			Expect(err).NotTo(HaveOccurred())

			Expect(gs.Score).To(BeNumerically("<=", ps.Score))
		})
	})

	Context("preference spelling", func() {
		It("resolves case, spaces and aliases", func() {
			patients := []*Patient{
				makePatient("A", " doctor1 "),
				makePatient("B", "HOUSE"),
			}
			doctors := []*Doctor{
				makeDoctor("Doctor1", 1),
				makeDoctor("Doctor2", 1, "house"),
			}

			allocs, explains, summary, err := (&Matcher{}).Match(patients, doctors)
			Expect(err).NotTo(HaveOccurred())
			Expect(allocs[0].Patients).To(Equal([]string{"A"}))
			Expect(allocs[1].Patients).To(Equal([]string{"B"}))
			Expect(explains[1].Rank).To(Equal(1))
			Expect(summary.FirstChoices).To(Equal(2))
		})

		It("rejects a repeated alias", func() {
			doctors := []*Doctor{
				makeDoctor("Doctor1", 1, "doc"),
				makeDoctor("Doctor2", 1, "DOC"),
			}
			_, _, _, err := (&Matcher{}).Match(nil, doctors)
			Expect(err).To(MatchError(ident.ErrRepeatedAlias))
		})

		It("rejects an alias that shadows another doctor's name", func() {
			patients := []*Patient{makePatient("A", "Doctor1")}
			doctors := []*Doctor{
				makeDoctor("Doctor1", 1),
				makeDoctor("Doctor2", 1, "doctor1"),
			}
			allocs, _, _, err := (&Matcher{}).Match(patients, doctors)
			Expect(err).To(MatchError(ident.ErrRepeatedAlias))
			Expect(err.Error()).To(ContainSubstring(`"doctor1"`))
			Expect(allocs).To(BeNil())
		})

		It("keeps doctors whose names differ only in case apart", func() {
			patients := []*Patient{makePatient("A", "dr a")}
			doctors := []*Doctor{
				makeDoctor("Dr A", 1),
				makeDoctor("dr a", 1),
			}
			allocs, explains, _, err := (&Matcher{}).Match(patients, doctors)
			Expect(err).NotTo(HaveOccurred())
			Expect(allocs[0].Patients).To(BeEmpty())
			Expect(allocs[1].Patients).To(Equal([]string{"A"}))
			Expect(explains[0].Doctor).To(Equal("dr a"))
			Expect(explains[0].Rank).To(Equal(1))
		})

		It("tolerates unknown doctors unless strict", func() {
			patients := []*Patient{makePatient("A", "Nobody")}
			doctors := []*Doctor{makeDoctor("Doctor1", 1)}

			_, explains, summary, err := (&Matcher{Logger: testLogger}).Match(patients, doctors)
			Expect(err).NotTo(HaveOccurred())
			Expect(explains[0].Ranked).To(BeFalse())
			Expect(summary.Unranked).To(Equal(1))

			strict := &Matcher{StrictPrefs: ptr.To(true)}
			_, _, _, err = strict.Match(patients, doctors)
			Expect(err).To(MatchError(kmmatch.ErrMalformedPreference))
		})
	})

	Context("failures", func() {
		It("reports a capacity shortfall", func() {
			patients := []*Patient{makePatient("A", "Doctor1"), makePatient("B", "Doctor1")}
			allocs, explains, _, err := (&Matcher{}).Match(patients, []*Doctor{makeDoctor("Doctor1", 1)})
			Expect(err).To(MatchError(kmmatch.ErrInfeasibleCapacity))
			Expect(allocs).To(BeNil())
			Expect(explains).To(BeNil())
		})

		It("reports a negative capacity", func() {
			_, _, _, err := (&Matcher{}).Match(nil, []*Doctor{makeDoctor("Doctor1", -1)})
			Expect(err).To(MatchError(kmmatch.ErrInvalidCapacity))
		})

		It("rejects an unknown strategy", func() {
			m := &Matcher{Strategy: ptr.To("random")}
			_, _, _, err := m.Match(samplePatients(), sampleDoctors())
			Expect(err).To(MatchError(ErrUnknownStrategy))
		})
	})

	It("lists idle doctors with no patients", func() {
		allocs, _, summary, err := (&Matcher{}).Match(
			[]*Patient{makePatient("A", "Doctor1")},
			[]*Doctor{makeDoctor("Doctor1", 1), makeDoctor("Doctor2", 3)})
		Expect(err).NotTo(HaveOccurred())
		Expect(allocs[1].Patients).To(BeEmpty())
		Expect(allocs[1].Patients).NotTo(BeNil())
		Expect(summary.SlotsCount).To(Equal(4))
	})
})
