package cmd

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/csmacd/simulation"
)

var _ = Describe("Root command", func() {
	var stdout, stderr *bytes.Buffer

	execute := func(args ...string) error {
		cmd := NewRootCommand()
		cmd.SetOut(stdout)
		cmd.SetErr(stderr)
		cmd.SetArgs(args)

		return cmd.Execute()
	}

	BeforeEach(func() {
		stdout = new(bytes.Buffer)
		stderr = new(bytes.Buffer)
	})

	It("should require exactly six arguments", func() {
		err := execute("1", "2", "3")

		Expect(err).To(HaveOccurred())
		Expect(stdout.String()).NotTo(ContainSubstring("Throughput"))
	})

	It("should print throughput and delay", func() {
		err := execute("1", "2", "10", "10", "1000", "1")

		Expect(err).NotTo(HaveOccurred())
		Expect(stdout.String()).To(MatchRegexp(
			`^Throughput = \S+ packets per second\nAvg delay = \S+ seconds per packet\n$`))
	})

	DescribeTable("should reject invalid arguments",
		func(args ...string) {
			err := execute(args...)

			Expect(err).To(MatchError(simulation.ErrInvalidParams))
		},
		Entry("non-integer T", "ten", "2", "10", "10", "1000", "1"),
		Entry("zero stations", "1", "0", "10", "10", "1000", "1"),
		Entry("non-numeric A", "1", "2", "many", "10", "1000", "1"),
		Entry("zero link speed", "1", "2", "10", "0", "1000", "1"),
		Entry("zero persistence", "1", "2", "10", "10", "1000", "0"),
		Entry("unknown format", "1", "2", "10", "10", "1000", "1",
			"--format", "xml"),
		Entry("unknown channel", "1", "2", "10", "10", "1000", "1",
			"--channel", "radio"),
		Entry("unknown random source", "1", "2", "10", "10", "1000", "1",
			"--rng", "dice"),
		Entry("missing station", "1", "2", "10", "10", "1000", "1",
			"--dump-station", "2"),
		Entry("no replications", "1", "2", "10", "10", "1000", "1",
			"--replications", "0"),
	)

	It("should write YAML", func() {
		err := execute("1", "2", "10", "10", "1000", "0.5",
			"--format", "yaml", "--channel", "snapshot", "--seed", "9")
		Expect(err).NotTo(HaveOccurred())

		decoded := map[string]any{}
		Expect(yaml.Unmarshal(stdout.Bytes(), &decoded)).To(Succeed())
		Expect(decoded["seed"]).To(Equal(9))
		Expect(decoded["sensing"]).To(Equal("snapshot"))
	})

	It("should summarize replications", func() {
		err := execute("1", "1", "10", "10", "1000", "-1",
			"--replications", "3")

		Expect(err).NotTo(HaveOccurred())
		Expect(stdout.String()).To(ContainSubstring("Replications = 3"))
		Expect(stdout.String()).To(ContainSubstring("Throughput mean = "))
	})

	It("should count and log events", func() {
		err := execute("1", "1", "10", "10", "1000", "1",
			"--trace-counts", "--verbose")

		Expect(err).NotTo(HaveOccurred())
		Expect(stdout.String()).To(ContainSubstring("Arrival = "))
		Expect(stderr.String()).To(ContainSubstring("csmacd: "))
	})

	It("should log progress", func() {
		err := execute("1", "1", "10", "10", "1000", "1", "--progress")

		Expect(err).NotTo(HaveOccurred())
		Expect(stderr.String()).To(ContainSubstring("100%"))
	})

	It("should dump a station", func() {
		err := execute("1", "2", "10", "10", "1000", "1", "--dump-station", "1")

		Expect(err).NotTo(HaveOccurred())
		Expect(strings.Count(stdout.String(), "\n")).To(BeNumerically(">", 2))
	})

	It("should run with one shared stream", func() {
		err := execute("1", "2", "10", "10", "1000", "1", "--rng", "shared")

		Expect(err).NotTo(HaveOccurred())
		Expect(stdout.String()).To(ContainSubstring("Throughput = "))
	})
})
