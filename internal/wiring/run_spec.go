package wiring

import (
	"context"
	"os"
	"path/filepath"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"chartproof/internal/cgats"
	"chartproof/internal/config"
	"chartproof/internal/profiler"
)

const fixtureCSV = `Measurement Report;;;;
Light source;D50/2°;;;
No.;Name;L*;a*;b*
1;patch;5.12;1.02;-0.88
2;patch;48.07;62.11;40.23
3;patch;51.94;-40.55;30.16
4;patch;96.33;-0.12;2.05
`

const fixtureChart = `CTI2

DESCRIPTOR "Argyll Calibration Target chart information 2"
ORIGINATOR "Argyll targen"
COLOR_REP "iRGB"
CHART_ID "cp-0042"

NUMBER_OF_FIELDS 5
BEGIN_DATA_FORMAT
SAMPLE_ID SAMPLE_LOC RGB_R RGB_G RGB_B
END_DATA_FORMAT

NUMBER_OF_SETS 4
BEGIN_DATA
1 "A1" 0.00000 0.00000 0.00000
2 "A2" 100.00000 0.00000 0.00000
3 "B1" 0.00000 100.00000 0.00000
4 "B2" 100.00000 100.00000 100.00000
END_DATA
`

// stubInvoker records the job it was handed and returns a canned outcome.
type stubInvoker struct {
	job    profiler.Job
	called bool
	res    *profiler.Result
	err    error
}

func (s *stubInvoker) Build(_ context.Context, job profiler.Job) (*profiler.Result, error) {
	s.called = true
	s.job = job
	if s.err != nil {
		return nil, s.err
	}
	return s.res, nil
}

var _ = ginkgo.Describe("Run", func() {
	var cfg *config.Config

	ginkgo.BeforeEach(func() {
		dir := ginkgo.GinkgoT().TempDir()
		csvPath := filepath.Join(dir, "export.csv")
		chartPath := filepath.Join(dir, "chart.ti2")
		gomega.Expect(os.WriteFile(csvPath, []byte(fixtureCSV), 0o644)).To(gomega.Succeed())
		gomega.Expect(os.WriteFile(chartPath, []byte(fixtureChart), 0o644)).To(gomega.Succeed())
		cfg = &config.Config{
			Inputs:  config.Inputs{CSV: csvPath, Chart: chartPath},
			Outputs: config.Outputs{TI3: filepath.Join(dir, "chart.ti3")},
		}
	})

	ginkgo.It("converts measurements, writes the ti3 file, and profiles it", func() {
		inv := &stubInvoker{res: &profiler.Result{Output: "profile written"}}

		sum, err := Run(context.Background(), cfg, inv)
		gomega.Expect(err).To(gomega.Succeed())
		gomega.Expect(sum.Samples).To(gomega.Equal(4))
		gomega.Expect(sum.PCS).To(gomega.Equal("Lab"))

		sheet, err := cgats.ParseFile(sum.TI3Path)
		gomega.Expect(err).To(gomega.Succeed())
		gomega.Expect(sheet.Marker).To(gomega.Equal("CTI3"))
		gomega.Expect(sheet.Rows).To(gomega.HaveLen(4))

		gomega.Expect(inv.called).To(gomega.BeTrue())
		gomega.Expect(inv.job.TI3Path).To(gomega.Equal(sum.TI3Path))
		gomega.Expect(sum.ProfileBuilt).To(gomega.BeTrue())
		gomega.Expect(sum.ICCPath).To(gomega.HaveSuffix(".icc"))
	})

	ginkgo.It("keeps the ti3 file when the profiling tool fails", func() {
		inv := &stubInvoker{err: &profiler.ToolError{Tool: "colprof", Output: "boom"}}

		sum, err := Run(context.Background(), cfg, inv)
		gomega.Expect(err).To(gomega.HaveOccurred())
		gomega.Expect(sum).NotTo(gomega.BeNil())
		gomega.Expect(sum.ProfileBuilt).To(gomega.BeFalse())
		gomega.Expect(sum.TI3Path).To(gomega.BeAnExistingFile())
	})
})
