// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/choria-io/repack/model"
	"github.com/choria-io/repack/model/modelmocks"
)

var _ = Describe("Pack", func() {
	var (
		mockctl *gomock.Controller
		arch    *Archiver
		td      string
		data    string
		ctx     context.Context
	)

	BeforeEach(func() {
		mockctl = gomock.NewController(GinkgoT())
		td = GinkgoT().TempDir()
		ctx = context.Background()
		data = filepath.Join(td, "data")

		writeTestFile(filepath.Join(data, "file1.txt"), "file one")
		writeTestFile(filepath.Join(data, "sub", "file2.txt"), "file two")
		Expect(os.Mkdir(filepath.Join(data, "empty"), 0755)).To(Succeed())

		var err error
		arch, err = New(modelmocks.NewLogger(mockctl))
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		mockctl.Finish()
	})

	Describe("NewPackRequest", func() {
		It("Should apply defaults", func() {
			req, err := NewPackRequest("/x/y/data/")
			Expect(err).ToNot(HaveOccurred())
			Expect(req.SourceDirectory).To(Equal("/x/y/data"))
			Expect(req.Format).To(Equal(DefaultFormat))
			Expect(req.OutputDirectory).To(Equal("/x/y"))
			Expect(req.ArtifactName("zip")).To(Equal("data.zip"))

			req, err = NewPackRequest("data", WithFormat(""))
			Expect(err).ToNot(HaveOccurred())
			Expect(req.OutputDirectory).To(BeEmpty())
			Expect(req.Format).To(Equal("zip"))
		})

		It("Should name the archive after the directory stem", func() {
			req, err := NewPackRequest("/x/data.v2")
			Expect(err).ToNot(HaveOccurred())
			Expect(req.ArtifactName("tar.gz")).To(Equal("data.tar.gz"))

			req, err = NewPackRequest("/x/release.1.2")
			Expect(err).ToNot(HaveOccurred())
			Expect(req.ArtifactName("zip")).To(Equal("release.1.zip"))

			req, err = NewPackRequest("/x/.hidden")
			Expect(err).ToNot(HaveOccurred())
			Expect(req.ArtifactName("zip")).To(Equal(".hidden.zip"))
		})

		It("Should name the working directory after its real name", func() {
			cwd, err := os.Getwd()
			Expect(err).ToNot(HaveOccurred())

			req, err := NewPackRequest(".")
			Expect(err).ToNot(HaveOccurred())
			Expect(req.ArtifactName("zip")).To(Equal(Stem(cwd) + ".zip"))
		})

		It("Should require a directory", func() {
			_, err := NewPackRequest("")
			Expect(err).To(MatchError("source directory is required"))
		})
	})

	It("Should create a zip next to the directory by default", func() {
		out, err := arch.Pack(ctx, data)
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(HaveSuffix("data.zip"))
		Expect(filepath.Join(td, "data.zip")).To(BeARegularFile())
		Expect(data).To(BeADirectory())

		entries, err := os.ReadDir(td)
		Expect(err).ToNot(HaveOccurred())
		Expect(entries).To(HaveLen(2))
	})

	It("Should pack dotted directories to the stem", func() {
		dotted := filepath.Join(td, "data.v1")
		writeTestFile(filepath.Join(dotted, "file1.txt"), "file one")

		out, err := arch.Pack(ctx, dotted)
		Expect(err).ToNot(HaveOccurred())
		Expect(filepath.Base(out)).To(Equal("data.zip"))
		Expect(filepath.Join(td, "data.zip")).To(BeARegularFile())
	})

	It("Should write into the output directory", func() {
		outDir := filepath.Join(td, "out", "deeper")

		out, err := arch.Pack(ctx, data, WithFormat("gztar"), WithOutputDirectory(outDir))
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(HaveSuffix(filepath.Join("deeper", "data.tar.gz")))
		Expect(filepath.Join(outDir, "data.tar.gz")).To(BeARegularFile())
	})

	It("Should not include the archive when writing into the source", func() {
		out, err := arch.Pack(ctx, data, WithOutputDirectory(data))
		Expect(err).ToNot(HaveOccurred())
		Expect(filepath.Join(data, "data.zip")).To(BeARegularFile())

		dest, err := arch.Unpack(ctx, out, WithDestination(filepath.Join(td, "check")))
		Expect(err).ToNot(HaveOccurred())
		Expect(filepath.Join(dest, "file1.txt")).To(BeARegularFile())
		Expect(filepath.Join(dest, "data.zip")).ToNot(BeAnExistingFile())

		matches, err := filepath.Glob(filepath.Join(data, ".*.tmp"))
		Expect(err).ToNot(HaveOccurred())
		Expect(matches).To(BeEmpty())
	})

	It("Should reject unsupported formats and missing directories", func() {
		_, err := arch.Pack(ctx, data, WithFormat("rar"))
		Expect(err).To(MatchError(model.ErrUnsupportedFormat))

		_, err = arch.Pack(ctx, filepath.Join(td, "missing"))
		Expect(err).To(MatchError(model.ErrNotDirectory))

		_, err = arch.Pack(ctx, filepath.Join(data, "file1.txt"))
		Expect(err).To(MatchError(model.ErrNotDirectory))
	})

	It("Should stop when the context is canceled", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := arch.Pack(cctx, data)
		Expect(err).To(MatchError(context.Canceled))
		Expect(filepath.Join(td, "data.zip")).ToNot(BeAnExistingFile())
	})

	DescribeTable("Round trips",
		func(format string, ext string) {
			out, err := arch.Pack(ctx, data, WithFormat(format), WithOutputDirectory(filepath.Join(td, "archives")))
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(HaveSuffix("data." + ext))

			f, ok := Classify(out)
			Expect(ok).To(BeTrue())
			Expect(f.Name()).To(Equal(format))

			dest, err := arch.Unpack(ctx, out, WithKeepSource(false))
			Expect(err).ToNot(HaveOccurred())
			Expect(dest).To(Equal(filepath.Join(td, "archives", "data")))
			Expect(os.ReadFile(filepath.Join(dest, "file1.txt"))).To(Equal([]byte("file one")))
			Expect(os.ReadFile(filepath.Join(dest, "sub", "file2.txt"))).To(Equal([]byte("file two")))
			Expect(filepath.Join(dest, "empty")).To(BeADirectory())
			Expect(out).ToNot(BeAnExistingFile())
		},
		Entry("zip", "zip", "zip"),
		Entry("tar", "tar", "tar"),
		Entry("gztar", "gztar", "tar.gz"),
		Entry("bztar", "bztar", "tar.bz2"),
		Entry("xztar", "xztar", "tar.xz"),
		Entry("zstdtar", "zstdtar", "tar.zst"),
		Entry("lz4tar", "lz4tar", "tar.lz4"),
	)

	DescribeTable("Symlinks",
		func(format string) {
			Expect(os.Symlink("file1.txt", filepath.Join(data, "link"))).To(Succeed())

			out, err := arch.Pack(ctx, data, WithFormat(format), WithOutputDirectory(filepath.Join(td, "archives")))
			Expect(err).ToNot(HaveOccurred())

			dest, err := arch.Unpack(ctx, out)
			Expect(err).ToNot(HaveOccurred())

			link, err := os.Readlink(filepath.Join(dest, "link"))
			Expect(err).ToNot(HaveOccurred())
			Expect(link).To(Equal("file1.txt"))
		},
		Entry("zip", "zip"),
		Entry("gztar", "gztar"),
	)
})
