// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/choria-io/repack/model"
)

var _ = Describe("Scan", func() {
	var td string

	BeforeEach(func() {
		td = GinkgoT().TempDir()

		writeTestFile(filepath.Join(td, "b.zip"), "x")
		writeTestFile(filepath.Join(td, "a.tar.gz"), "x")
		writeTestFile(filepath.Join(td, "notes.txt"), "x")
		writeTestFile(filepath.Join(td, "sub", "deep", "c.tgz"), "x")
		writeTestFile(filepath.Join(td, "sub", "readme.md"), "x")
	})

	It("Should find archives at any depth in sorted order", func() {
		found, err := Scan(td)
		Expect(err).ToNot(HaveOccurred())
		Expect(found).To(Equal([]string{
			filepath.Join(td, "a.tar.gz"),
			filepath.Join(td, "b.zip"),
			filepath.Join(td, "sub", "deep", "c.tgz"),
		}))
	})

	It("Should scan unclean roots and empty directories", func() {
		found, err := Scan(filepath.Join(td, "sub", "deep", ".."))
		Expect(err).ToNot(HaveOccurred())
		Expect(found).To(HaveLen(1))

		empty := GinkgoT().TempDir()
		found, err = Scan(empty)
		Expect(err).ToNot(HaveOccurred())
		Expect(found).To(BeEmpty())
	})

	It("Should honor the pattern", func() {
		found, err := Scan(td, WithPattern("*"))
		Expect(err).ToNot(HaveOccurred())
		Expect(found).To(Equal([]string{filepath.Join(td, "a.tar.gz"), filepath.Join(td, "b.zip")}))

		found, err = Scan(td, WithPattern("sub/**/*.tgz"))
		Expect(err).ToNot(HaveOccurred())
		Expect(found).To(Equal([]string{filepath.Join(td, "sub", "deep", "c.tgz")}))

		found, err = Scan(td, WithPattern(""))
		Expect(err).ToNot(HaveOccurred())
		Expect(found).To(HaveLen(3))
	})

	It("Should reject invalid patterns", func() {
		_, err := Scan(td, WithPattern("[a-"))
		Expect(err).To(MatchError(model.ErrInvalidPattern))
	})

	It("Should honor the predicate", func() {
		found, err := Scan(td, WithPredicate(func(p string) bool { return strings.HasSuffix(p, ".zip") }))
		Expect(err).ToNot(HaveOccurred())
		Expect(found).To(Equal([]string{filepath.Join(td, "b.zip")}))

		found, err = Scan(td, WithPredicate(nil))
		Expect(err).ToNot(HaveOccurred())
		Expect(found).To(HaveLen(3))
	})

	It("Should fail for missing roots and files", func() {
		_, err := Scan(filepath.Join(td, "missing"))
		Expect(err).To(HaveOccurred())

		_, err = Scan(filepath.Join(td, "b.zip"))
		Expect(err).To(MatchError(model.ErrNotDirectory))
	})
})
