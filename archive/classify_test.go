// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/choria-io/repack/model"
)

var _ = Describe("Classify", func() {
	var td string

	BeforeEach(func() {
		td = GinkgoT().TempDir()
	})

	Describe("Formats", func() {
		It("Should include the minimum formats", func() {
			Expect(FormatNames()).To(ContainElements(MinimumFormats))
			Expect(FormatNames()).To(Equal([]string{"bztar", "gztar", "lz4tar", "tar", "xztar", "zip", "zstdtar"}))
			Expect(Formats()).To(HaveLen(7))
		})
	})

	Describe("IsSupportedExtension", func() {
		It("Should accept extensions with and without dots in any case", func() {
			Expect(IsSupportedExtension("zip")).To(BeTrue())
			Expect(IsSupportedExtension(".ZIP")).To(BeTrue())
			Expect(IsSupportedExtension("tar.gz")).To(BeTrue())
			Expect(IsSupportedExtension(".tgz")).To(BeTrue())
			Expect(IsSupportedExtension("txt")).To(BeFalse())
			Expect(IsSupportedExtension("")).To(BeFalse())
		})
	})

	Describe("LookupFormat", func() {
		It("Should find formats by name or extension", func() {
			f, err := LookupFormat("gztar")
			Expect(err).ToNot(HaveOccurred())
			Expect(f.Name()).To(Equal("gztar"))

			f, err = LookupFormat(".tar.gz")
			Expect(err).ToNot(HaveOccurred())
			Expect(f.Name()).To(Equal("gztar"))

			f, err = LookupFormat("TBZ2")
			Expect(err).ToNot(HaveOccurred())
			Expect(f.Name()).To(Equal("bztar"))
		})

		It("Should list available formats for unknown formats", func() {
			_, err := LookupFormat("rar")
			Expect(err).To(MatchError(model.ErrUnsupportedFormat))
			Expect(err.Error()).To(ContainSubstring("rar, available formats: bztar, gztar"))
		})
	})

	Describe("IsArchive", func() {
		It("Should require an existing regular file", func() {
			Expect(IsArchive(filepath.Join(td, "missing.zip"))).To(BeFalse())

			Expect(os.Mkdir(filepath.Join(td, "dir.zip"), 0755)).To(Succeed())
			Expect(IsArchive(filepath.Join(td, "dir.zip"))).To(BeFalse())
		})

		It("Should classify by extension only", func() {
			Expect(IsArchive(writeTestFile(filepath.Join(td, "junk.zip"), "not really a zip"))).To(BeTrue())
			Expect(IsArchive(writeTestFile(filepath.Join(td, "notes.txt"), "text"))).To(BeFalse())
			Expect(IsArchive(writeTestFile(filepath.Join(td, "UPPER.TAR.GZ"), "x"))).To(BeTrue())
		})

		It("Should not treat a bare extension as an archive", func() {
			Expect(IsArchive(writeTestFile(filepath.Join(td, ".zip"), "x"))).To(BeFalse())
		})

		It("Should prefer the longest extension", func() {
			f, ok := Classify(writeTestFile(filepath.Join(td, "data.tar.gz"), "x"))
			Expect(ok).To(BeTrue())
			Expect(f.Name()).To(Equal("gztar"))

			f, ok = Classify(writeTestFile(filepath.Join(td, "data.tar"), "x"))
			Expect(ok).To(BeTrue())
			Expect(f.Name()).To(Equal("tar"))
		})
	})

	Describe("Stem", func() {
		It("Should strip the full archive extension", func() {
			Expect(Stem("/x/data.tar.gz")).To(Equal("data"))
			Expect(Stem("/x/data.v2.zip")).To(Equal("data.v2"))
			Expect(Stem("packed_file.zip")).To(Equal("packed_file"))
			Expect(Stem("notes.txt")).To(Equal("notes"))
		})
	})

	Describe("DefaultDestination", func() {
		It("Should be a sibling named after the stem", func() {
			Expect(DefaultDestination("/x/y/data.tgz")).To(Equal("/x/y/data"))
			Expect(DefaultDestination("data.zip")).To(Equal("data"))
		})
	})
})
