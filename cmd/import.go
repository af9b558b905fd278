package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/abhisek/blankcheck/internal/bank"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var importCmd = &cobra.Command{
	Use:   "import [file-or-dir]",
	Short: "Load course packages into the database",
	Long: "Load *.course.json files into the database, updating questions that " +
		"already exist. Defaults to the configured courses directory.",
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	path := cfg.CoursesDir
	if len(args) == 1 {
		path = args[0]
	}

	courses, loadErrs, err := loadCourses(path)
	if err != nil {
		return err
	}
	for _, lerr := range loadErrs {
		logger.Warn("skipping course file", zap.Error(lerr))
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	repo := s.QuestionRepo()
	out := cmd.OutOrStdout()
	total := 0
	for _, c := range courses {
		n, err := repo.ImportCourse(cmd.Context(), c)
		if err != nil {
			return fmt.Errorf("import %s: %w", c.Key, err)
		}
		logger.Info("imported course", zap.String("course", c.Key), zap.Int("questions", n))
		fmt.Fprintf(out, "imported %s: %d questions\n", c.Key, n)
		total += n
	}
	fmt.Fprintf(out, "%d courses, %d questions\n", len(courses), total)

	if len(loadErrs) > 0 {
		return fmt.Errorf("%d course files failed to load: %w", len(loadErrs), errors.Join(loadErrs...))
	}
	return nil
}

// loadCourses loads a single course file or every course file under a
// directory. Per-file failures are returned in loadErrs.
func loadCourses(path string) (courses []*bank.Course, loadErrs []error, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		c, err := bank.LoadFile(path)
		if err != nil {
			return nil, []error{err}, nil
		}
		return []*bank.Course{c}, nil, nil
	}
	courses, loadErrs = bank.LoadDir(path)
	return courses, loadErrs, nil
}
