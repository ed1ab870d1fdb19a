package e2e

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"
	"github.com/onsi/gomega/gexec"
)

func run(stdin string, args ...string) *gexec.Session {
	cmd := exec.Command(binary, args...)
	cmd.Stdin = strings.NewReader(stdin)
	session, err := gexec.Start(cmd, GinkgoWriter, GinkgoWriter)
	Expect(err).ToNot(HaveOccurred())
	Eventually(session).WithTimeout(time.Minute).Should(gexec.Exit())
	Logf("bnb %s exited with %d", strings.Join(args, " "), session.ExitCode())
	return session
}

var _ = Describe("Bundled examples", func() {
	DescribeTable("should solve each example",
		func(number string, found bool, assignment map[string]float64) {
			session := run("", "examples", number, "--output", "json")
			Expect(session.ExitCode()).To(Equal(0))

			var doc map[string]any
			Expect(json.Unmarshal(session.Out.Contents(), &doc)).To(Succeed())
			Expect(doc).To(HaveKeyWithValue("found", found))
			for name, value := range assignment {
				Expect(doc["assignment"]).To(HaveKeyWithValue(name, BeNumerically("~", value, 1e-9)))
			}
		},
		Entry("two variables", "1", true, map[string]float64{"x": 2, "y": 3}),
		Entry("knapsack", "2", true, map[string]float64{"a": 2, "b": 0, "c": 1}),
		Entry("wedge", "3", true, map[string]float64{"x": 1, "y": 2}),
		Entry("tie", "4", true, nil),
		Entry("half", "5", false, nil),
		Entry("mixed", "6", true, map[string]float64{"x": 2, "y": -1, "z": 1}),
	)

	It("should quit the menu on q", func() {
		session := run("q\n", "examples")
		Expect(session.ExitCode()).To(Equal(0))
		Expect(session.Out).To(gbytes.Say("Choose an example"))
	})

	It("should print debug logs", func() {
		session := run("", "--debug", "examples", "1")
		Expect(session.ExitCode()).To(Equal(0))
		Expect(session.Err).To(gbytes.Say("running simplex"))
	})
})

var _ = Describe("Solving a file", func() {
	It("should exit non-zero for a missing file", func() {
		session := run("", "solve", filepath.Join(GinkgoT().TempDir(), "missing.yaml"))
		Expect(session.ExitCode()).To(Equal(1))
		Expect(session.Err).To(gbytes.Say("not found"))
	})

	It("should solve a model on disk", func() {
		path := filepath.Join(GinkgoT().TempDir(), "model.yaml")
		Expect(os.WriteFile(path, []byte(`
name: disk
objective: {sense: minimize, coefficients: {x: 1}}
variables: [{name: x, lower: 0.5}]
`), 0o600)).To(Succeed())

		session := run("", "solve", path)
		Expect(session.ExitCode()).To(Equal(0))
		Expect(session.Out).To(gbytes.Say("INTEGER SOLUTION FOUND"))
		Expect(session.Out).To(gbytes.Say("- x = 1"))
	})

	It("should stop at the timeout or finish", func() {
		session := run("", "examples", "3", "--timeout", "1ns")
		Expect(session.ExitCode()).To(BeElementOf(0, 1))
	})
})
