// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/choria-io/repack/model"
	"github.com/choria-io/repack/model/modelmocks"
)

var _ = Describe("Unpack", func() {
	var (
		mockctl *gomock.Controller
		arch    *Archiver
		td      string
		ctx     context.Context
		cancel  context.CancelFunc
	)

	BeforeEach(func() {
		mockctl = gomock.NewController(GinkgoT())
		td = GinkgoT().TempDir()
		ctx, cancel = context.WithCancel(context.Background())

		var err error
		arch, err = New(modelmocks.NewLogger(mockctl))
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		cancel()
		mockctl.Finish()
	})

	Describe("New", func() {
		It("Should require a logger", func() {
			_, err := New(nil)
			Expect(err).To(MatchError("logger is required"))
		})

		It("Should reject negative recursion limits", func() {
			_, err := New(modelmocks.NewLogger(mockctl), WithRecursionLimit(-1))
			Expect(err).To(MatchError("recursion limit cannot be negative"))
		})
	})

	Describe("NewExtractionRequest", func() {
		It("Should apply defaults", func() {
			req, err := NewExtractionRequest("/x/data.tar.gz")
			Expect(err).ToNot(HaveOccurred())
			Expect(req.Destination).To(Equal("/x/data"))
			Expect(req.KeepSource).To(BeTrue())
			Expect(req.MaxDepth).To(BeNil())
		})

		It("Should validate options", func() {
			_, err := NewExtractionRequest("")
			Expect(err).To(MatchError("source archive is required"))

			_, err = NewExtractionRequest("x.zip", WithMaxDepth(-1))
			Expect(err).To(MatchError("depth cannot be negative"))
		})

		It("Should derive children that unpack in place", func() {
			req, err := NewExtractionRequest("/x/data.zip", WithMaxDepth(3), WithKeepSource(true))
			Expect(err).ToNot(HaveOccurred())

			child := req.child("/x/data/inner/nested.tgz")
			Expect(child.Destination).To(Equal("/x/data/inner"))
			Expect(child.KeepSource).To(BeFalse())
			Expect(*child.MaxDepth).To(Equal(2))
			Expect(*req.MaxDepth).To(Equal(3))

			req, err = NewExtractionRequest("/x/data.zip")
			Expect(err).ToNot(HaveOccurred())
			Expect(req.child("/x/data/a.zip").MaxDepth).To(BeNil())
		})
	})

	Describe("Unpack", func() {
		It("Should extract next to the source and keep it by default", func() {
			src := writeZip(filepath.Join(td, "packed_file.zip"), map[string][]byte{"file1.txt": []byte("hello")})

			dest, err := arch.Unpack(ctx, src)
			Expect(err).ToNot(HaveOccurred())
			Expect(dest).To(Equal(filepath.Join(td, "packed_file")))
			Expect(filepath.Join(dest, "file1.txt")).To(BeARegularFile())
			Expect(os.ReadFile(filepath.Join(dest, "file1.txt"))).To(Equal([]byte("hello")))
			Expect(src).To(BeARegularFile())
		})

		It("Should support a destination and removing the source", func() {
			src := writeZip(filepath.Join(td, "packed_file.zip"), map[string][]byte{
				"dir/":          nil,
				"dir/file1.txt": []byte("hello"),
			})
			target := filepath.Join(td, "elsewhere", "out")

			dest, err := arch.Unpack(ctx, src, WithDestination(target), WithKeepSource(false))
			Expect(err).ToNot(HaveOccurred())
			Expect(dest).To(Equal(target))
			Expect(filepath.Join(target, "dir")).To(BeADirectory())
			Expect(filepath.Join(target, "dir", "file1.txt")).To(BeARegularFile())
			Expect(src).ToNot(BeAnExistingFile())
		})

		It("Should unpack into an existing destination", func() {
			src := writeZip(filepath.Join(td, "a.zip"), map[string][]byte{"file1.txt": []byte("new")})
			writeTestFile(filepath.Join(td, "a", "file1.txt"), "old")
			writeTestFile(filepath.Join(td, "a", "other.txt"), "other")

			_, err := arch.Unpack(ctx, src)
			Expect(err).ToNot(HaveOccurred())
			Expect(os.ReadFile(filepath.Join(td, "a", "file1.txt"))).To(Equal([]byte("new")))
			Expect(filepath.Join(td, "a", "other.txt")).To(BeARegularFile())
		})

		It("Should unpack tar archives with symlinks inside the destination", func() {
			src := writeTar(filepath.Join(td, "links.tar"),
				&tar.Header{Name: "dir/", Typeflag: tar.TypeDir, Mode: 0755},
				&tar.Header{Name: "dir/file.txt", Typeflag: tar.TypeReg, Mode: 0600, Size: 3},
				&tar.Header{Name: "dir/link", Typeflag: tar.TypeSymlink, Linkname: "file.txt"},
				&tar.Header{Name: "dir/fifo", Typeflag: tar.TypeFifo},
			)

			dest, err := arch.Unpack(ctx, src)
			Expect(err).ToNot(HaveOccurred())

			link, err := os.Readlink(filepath.Join(dest, "dir", "link"))
			Expect(err).ToNot(HaveOccurred())
			Expect(link).To(Equal("file.txt"))
			Expect(os.ReadFile(filepath.Join(dest, "dir", "link"))).To(Equal([]byte("xxx")))

			stat, err := os.Stat(filepath.Join(dest, "dir", "file.txt"))
			Expect(err).ToNot(HaveOccurred())
			Expect(stat.Mode().Perm()).To(Equal(os.FileMode(0600)))
			Expect(filepath.Join(dest, "dir", "fifo")).ToNot(BeAnExistingFile())
		})

		It("Should reject entries escaping the destination and keep the source", func() {
			src := writeZip(filepath.Join(td, "evil.zip"), map[string][]byte{"../escaped.txt": []byte("evil")})

			_, err := arch.Unpack(ctx, src, WithKeepSource(false))
			Expect(err).To(HaveOccurred())
			Expect(filepath.Join(td, "escaped.txt")).ToNot(BeAnExistingFile())
			Expect(src).To(BeARegularFile())
		})

		It("Should reject symlinks escaping the destination", func() {
			src := writeTar(filepath.Join(td, "evil.tar"),
				&tar.Header{Name: "passwd", Typeflag: tar.TypeSymlink, Linkname: "/etc/passwd"},
			)

			_, err := arch.Unpack(ctx, src)
			Expect(err).To(MatchError(model.ErrUnsafePath))

			src = writeTar(filepath.Join(td, "evil2.tar"),
				&tar.Header{Name: "up", Typeflag: tar.TypeSymlink, Linkname: "../../outside"},
			)

			_, err = arch.Unpack(ctx, src)
			Expect(err).To(MatchError(model.ErrUnsafePath))
		})

		It("Should reject symlink chains that resolve outside the destination", func() {
			src := writeTar(filepath.Join(td, "evil.tar"),
				&tar.Header{Name: "x", Typeflag: tar.TypeSymlink, Linkname: "."},
				&tar.Header{Name: "y", Typeflag: tar.TypeSymlink, Linkname: "x/.."},
				&tar.Header{Name: "y/escaped.txt", Typeflag: tar.TypeReg, Mode: 0644, Size: 4},
			)

			_, err := arch.Unpack(ctx, src, WithKeepSource(false))
			Expect(err).To(MatchError(model.ErrUnsafePath))
			Expect(filepath.Join(td, "escaped.txt")).ToNot(BeAnExistingFile())
			Expect(filepath.Join(td, "evil", "y")).ToNot(BeAnExistingFile())
			Expect(src).To(BeARegularFile())
		})

		It("Should reject entries written through symlinks from the same archive", func() {
			src := writeTar(filepath.Join(td, "evil.tar"),
				&tar.Header{Name: "dir/", Typeflag: tar.TypeDir, Mode: 0755},
				&tar.Header{Name: "link", Typeflag: tar.TypeSymlink, Linkname: "dir"},
				&tar.Header{Name: "link/file.txt", Typeflag: tar.TypeReg, Mode: 0644, Size: 4},
			)

			_, err := arch.Unpack(ctx, src)
			Expect(err).To(MatchError(ContainSubstring("is below symlink link")))
			Expect(err).To(MatchError(model.ErrUnsafePath))

			src = writeTar(filepath.Join(td, "replace.tar"),
				&tar.Header{Name: "link", Typeflag: tar.TypeSymlink, Linkname: "file.txt"},
				&tar.Header{Name: "link", Typeflag: tar.TypeReg, Mode: 0644, Size: 4},
			)

			_, err = arch.Unpack(ctx, src)
			Expect(err).To(MatchError(model.ErrUnsafePath))
			Expect(filepath.Join(td, "replace", "link")).ToNot(BeAnExistingFile())
		})

		It("Should keep archives with a corrupt compressor trailer", func() {
			raw := writeTar(filepath.Join(td, "raw.tar"),
				&tar.Header{Name: "file.txt", Typeflag: tar.TypeReg, Mode: 0644, Size: 10},
			)
			plain, err := os.ReadFile(raw)
			Expect(err).ToNot(HaveOccurred())

			buf := bytes.NewBuffer(nil)
			gz := gzip.NewWriter(buf)
			_, err = gz.Write(plain)
			Expect(err).ToNot(HaveOccurred())
			Expect(gz.Close()).To(Succeed())

			// the gzip trailer holds the crc32 followed by the size
			data := buf.Bytes()
			data[len(data)-8] ^= 0xff
			src := filepath.Join(td, "bad_crc.tar.gz")
			Expect(os.WriteFile(src, data, 0644)).To(Succeed())

			_, err = arch.Unpack(ctx, src, WithKeepSource(false))
			Expect(err).To(MatchError(ContainSubstring("could not unpack")))
			Expect(src).To(BeARegularFile())
			Expect(filepath.Join(td, "bad_crc", "file.txt")).ToNot(BeAnExistingFile())
		})

		It("Should keep corrupt archives", func() {
			src := writeTestFile(filepath.Join(td, "corrupt.zip"), "this is not a zip file")

			_, err := arch.Unpack(ctx, src, WithKeepSource(false))
			Expect(err).To(MatchError(ContainSubstring("could not unpack")))
			Expect(src).To(BeARegularFile())

			src = writeTestFile(filepath.Join(td, "corrupt.tar.gz"), "this is not gzip")
			_, err = arch.Unpack(ctx, src, WithKeepSource(false))
			Expect(err).To(HaveOccurred())
			Expect(src).To(BeARegularFile())
		})

		It("Should reject unsupported and missing files", func() {
			_, err := arch.Unpack(ctx, writeTestFile(filepath.Join(td, "notes.txt"), "x"))
			Expect(err).To(MatchError(model.ErrUnsupportedFormat))

			_, err = arch.Unpack(ctx, filepath.Join(td, "missing.zip"))
			Expect(err).To(MatchError(model.ErrUnsupportedFormat))
		})

		It("Should stop when the context is canceled", func() {
			src := writeZip(filepath.Join(td, "a.zip"), map[string][]byte{"file1.txt": []byte("x")})
			cancel()

			_, err := arch.Unpack(ctx, src, WithKeepSource(false))
			Expect(err).To(MatchError(context.Canceled))
			Expect(src).To(BeARegularFile())
		})
	})

	Describe("UnpackRecursive", func() {
		It("Should unpack every layer and remove nested archives", func() {
			src := nestedZip(td)

			res, err := arch.UnpackRecursive(ctx, src)
			Expect(err).ToNot(HaveOccurred())

			dest := filepath.Join(td, "outer")
			Expect(res.Destination).To(Equal(dest))
			Expect(res.Archives).To(Equal([]string{src, filepath.Join(dest, "packed_dir.zip")}))
			Expect(res.Entries).To(Equal(3))

			Expect(filepath.Join(dest, "file2.txt")).To(BeARegularFile())
			Expect(filepath.Join(dest, "nested_file.txt")).To(BeARegularFile())
			Expect(filepath.Join(dest, "packed_dir.zip")).ToNot(BeAnExistingFile())
			Expect(src).To(BeARegularFile())
		})

		It("Should remove the outer source when asked", func() {
			src := nestedZip(td)

			_, err := arch.UnpackRecursive(ctx, src, WithKeepSource(false))
			Expect(err).ToNot(HaveOccurred())
			Expect(src).ToNot(BeAnExistingFile())
			Expect(filepath.Join(td, "outer", "nested_file.txt")).To(BeARegularFile())
		})

		It("Should stop at the requested depth", func() {
			src := nestedZip(td)

			res, err := arch.UnpackRecursive(ctx, src, WithMaxDepth(1))
			Expect(err).ToNot(HaveOccurred())
			Expect(res.Archives).To(HaveLen(1))
			Expect(filepath.Join(td, "outer", "packed_dir.zip")).To(BeARegularFile())
			Expect(filepath.Join(td, "outer", "nested_file.txt")).ToNot(BeAnExistingFile())
		})

		DescribeTable("Depth limits on three layers",
			func(depth int, archives int, present []string, absent []string) {
				innermost := zipBytes(map[string][]byte{"deepest.txt": []byte("deep")})
				middle := zipBytes(map[string][]byte{"sub/innermost.zip": innermost})
				src := writeZip(filepath.Join(td, "top.zip"), map[string][]byte{"middle.zip": middle, "top.txt": []byte("top")})

				res, err := arch.UnpackRecursive(ctx, src, WithMaxDepth(depth))
				Expect(err).ToNot(HaveOccurred())
				Expect(res.Archives).To(HaveLen(archives))

				for _, p := range present {
					Expect(filepath.Join(td, "top", p)).To(BeARegularFile())
				}
				for _, p := range absent {
					Expect(filepath.Join(td, "top", p)).ToNot(BeAnExistingFile())
				}
			},
			Entry("one layer", 1, 1, []string{"top.txt", "middle.zip"}, []string{"sub"}),
			Entry("two layers", 2, 2, []string{"top.txt", "sub/innermost.zip"}, []string{"middle.zip", "deepest.txt", "sub/deepest.txt"}),
			Entry("three layers", 3, 3, []string{"top.txt", "sub/deepest.txt"}, []string{"middle.zip", "sub/innermost.zip"}),
			Entry("more than available", 10, 3, []string{"sub/deepest.txt"}, []string{"middle.zip", "sub/innermost.zip"}),
		)

		It("Should unpack three layers deep", func() {
			innermost := zipBytes(map[string][]byte{"deepest.txt": []byte("deep")})
			middle := zipBytes(map[string][]byte{"sub/innermost.zip": innermost})
			src := writeZip(filepath.Join(td, "top.zip"), map[string][]byte{"middle.zip": middle, "top.txt": []byte("top")})

			res, err := arch.UnpackRecursive(ctx, src)
			Expect(err).ToNot(HaveOccurred())
			Expect(res.Archives).To(HaveLen(3))
			Expect(filepath.Join(td, "top", "sub", "deepest.txt")).To(BeARegularFile())
			Expect(filepath.Join(td, "top", "middle.zip")).ToNot(BeAnExistingFile())
			Expect(filepath.Join(td, "top", "sub", "innermost.zip")).ToNot(BeAnExistingFile())

			_, err = os.Stat(filepath.Join(td, "top", "top.txt"))
			Expect(err).ToNot(HaveOccurred())
		})

		It("Should enforce the recursion limit", func() {
			limited, err := New(modelmocks.NewLogger(mockctl), WithRecursionLimit(1))
			Expect(err).ToNot(HaveOccurred())

			src := nestedZip(td)
			res, err := limited.UnpackRecursive(ctx, src)
			Expect(err).To(MatchError(model.ErrRecursionLimit))
			Expect(res.Archives).To(Equal([]string{src}))
			Expect(filepath.Join(td, "outer", "packed_dir.zip")).To(BeARegularFile())
		})

		It("Should stop on the first failure", func() {
			src := writeZip(filepath.Join(td, "outer.zip"), map[string][]byte{
				"bad.zip":   []byte("not a zip"),
				"file2.txt": []byte("x"),
			})

			_, err := arch.UnpackRecursive(ctx, src)
			Expect(err).To(MatchError(ContainSubstring("could not unpack")))
			Expect(filepath.Join(td, "outer", "file2.txt")).To(BeARegularFile())
			Expect(filepath.Join(td, "outer", "bad.zip")).To(BeARegularFile())
		})
	})
})
