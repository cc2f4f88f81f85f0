package archive_test

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"fondspod/internal/archive"
	"fondspod/internal/database"
	"fondspod/internal/testutil"
)

const libraryRoot = "/library"

type fixture struct {
	svc   *archive.ArchiveService
	db    *database.SQLiteDatabase
	fsmgr *testutil.MockFilesystemManager
	clock *testutil.StubClock
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	clock := testutil.NewStubClock(now)
	db := testutil.NewTestDatabase(t, clock)
	fsmgr := testutil.NewMockFilesystemManager()
	svc := archive.NewArchiveService(db, fsmgr, archive.NewNopLogger(), clock, libraryRoot)
	return &fixture{svc: svc, db: db, fsmgr: fsmgr, clock: clock}
}

// seed creates classification A and the Dept schema with items HR and FIN.
func (f *fixture) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	if _, err := f.svc.CreateClassification(ctx, "A", "Administration", ""); err != nil {
		t.Fatalf("CreateClassification() error = %v", err)
	}
	if _, err := f.svc.CreateSchema(ctx, "Dept", "Department"); err != nil {
		t.Fatalf("CreateSchema() error = %v", err)
	}
	for _, it := range [][2]string{{"HR", "Human Resources"}, {"FIN", "Finance"}} {
		if _, err := f.svc.AddSchemaItem(ctx, "Dept", it[0], it[1]); err != nil {
			t.Fatalf("AddSchemaItem(%s) error = %v", it[0], err)
		}
	}
}

func (f *fixture) createFond(t *testing.T, schemas ...string) *archive.FondResult {
	t.Helper()
	res, err := f.svc.CreateFond(context.Background(), archive.CreateFondInput{
		ClassificationCode: "A",
		Name:               "Board records",
		SchemaNos:          schemas,
	})
	if err != nil {
		t.Fatalf("CreateFond() error = %v", err)
	}
	return res
}

func seriesNos(t *testing.T, svc *archive.ArchiveService, fondNo string) []string {
	t.Helper()
	series, err := svc.ListSeries(context.Background(), fondNo)
	if err != nil {
		t.Fatalf("ListSeries() error = %v", err)
	}
	out := make([]string, len(series))
	for i, s := range series {
		out[i] = s.SeriesNo
	}
	return out
}

func date(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 12, 0, 0, 0, time.UTC)
}

func TestArchiveService_SeriesGeneration(t *testing.T) {
	ctx := context.Background()

	t.Run("year and department product", func(t *testing.T) {
		f := newFixture(t, date(2020, time.May))
		f.seed(t)
		res := f.createFond(t, "Year", "Dept")

		if got := len(res.Generation.Created); got != 2 {
			t.Fatalf("created at creation = %d, want 2", got)
		}

		f.clock.Set(date(2021, time.March))
		gen, err := f.svc.GenerateSeries(ctx, res.Fond.FondNo)
		if err != nil {
			t.Fatalf("GenerateSeries() error = %v", err)
		}
		if len(gen.Created) != 2 || gen.Existing != 2 || gen.Candidates != 4 {
			t.Errorf("GenerateSeries() = created %d existing %d candidates %d, want 2/2/4",
				len(gen.Created), gen.Existing, gen.Candidates)
		}

		want := []string{"2020-HR", "2020-FIN", "2021-HR", "2021-FIN"}
		if got := seriesNos(t, f.svc, res.Fond.FondNo); !reflect.DeepEqual(got, want) {
			t.Errorf("series = %v, want %v", got, want)
		}

		series, _ := f.svc.ListSeries(ctx, res.Fond.FondNo)
		if series[0].Name != "2020-Human Resources" {
			t.Errorf("series name = %q, want %q", series[0].Name, "2020-Human Resources")
		}
	})

	t.Run("rerun is a no-op", func(t *testing.T) {
		f := newFixture(t, date(2024, time.January))
		f.seed(t)
		res := f.createFond(t, "Year", "Dept")

		gen, err := f.svc.GenerateSeries(ctx, res.Fond.FondNo)
		if err != nil {
			t.Fatalf("GenerateSeries() error = %v", err)
		}
		if len(gen.Created) != 0 || gen.Existing != 2 {
			t.Errorf("GenerateSeries() created %d existing %d, want 0/2", len(gen.Created), gen.Existing)
		}
	})

	t.Run("axis order follows assignment order", func(t *testing.T) {
		f := newFixture(t, date(2024, time.January))
		f.seed(t)
		res := f.createFond(t, "Dept", "Year")

		want := []string{"HR-2024", "FIN-2024"}
		if got := seriesNos(t, f.svc, res.Fond.FondNo); !reflect.DeepEqual(got, want) {
			t.Errorf("series = %v, want %v", got, want)
		}
	})

	t.Run("schema without items yields no series", func(t *testing.T) {
		f := newFixture(t, date(2024, time.January))
		f.seed(t)
		if _, err := f.svc.CreateSchema(ctx, "Media", ""); err != nil {
			t.Fatalf("CreateSchema() error = %v", err)
		}
		res := f.createFond(t, "Year", "Media")

		if len(res.Generation.Created) != 0 {
			t.Errorf("created = %d, want 0", len(res.Generation.Created))
		}
		if !reflect.DeepEqual(res.Generation.EmptySchemas, []string{"Media"}) {
			t.Errorf("EmptySchemas = %v, want [Media]", res.Generation.EmptySchemas)
		}
	})

	t.Run("fond without schemas has no series", func(t *testing.T) {
		f := newFixture(t, date(2024, time.January))
		f.seed(t)
		res := f.createFond(t)

		if res.Generation.Candidates != 0 || len(res.Generation.Created) != 0 {
			t.Errorf("generation = %+v, want empty", res.Generation)
		}
	})

	t.Run("assigning a schema adds series and keeps old ones", func(t *testing.T) {
		f := newFixture(t, date(2024, time.January))
		f.seed(t)
		res := f.createFond(t, "Year")

		gen, err := f.svc.AssignSchema(ctx, res.Fond.FondNo, "Dept")
		if err != nil {
			t.Fatalf("AssignSchema() error = %v", err)
		}
		if len(gen.Created) != 2 {
			t.Errorf("created = %d, want 2", len(gen.Created))
		}
		want := []string{"2024", "2024-HR", "2024-FIN"}
		if got := seriesNos(t, f.svc, res.Fond.FondNo); !reflect.DeepEqual(got, want) {
			t.Errorf("series = %v, want %v", got, want)
		}

		if _, err := f.svc.AssignSchema(ctx, res.Fond.FondNo, "Dept"); !errors.Is(err, archive.ErrValidation) {
			t.Errorf("second AssignSchema() error = %v, want ErrValidation", err)
		}
	})

	t.Run("new schema item is picked up", func(t *testing.T) {
		f := newFixture(t, date(2024, time.January))
		f.seed(t)
		res := f.createFond(t, "Dept")

		if _, err := f.svc.AddSchemaItem(ctx, "Dept", "IT", "Information Technology"); err != nil {
			t.Fatalf("AddSchemaItem() error = %v", err)
		}
		gen, err := f.svc.GenerateSeries(ctx, res.Fond.FondNo)
		if err != nil {
			t.Fatalf("GenerateSeries() error = %v", err)
		}
		if len(gen.Created) != 1 || gen.Created[0].SeriesNo != "IT" {
			t.Errorf("created = %v, want [IT]", gen.Created)
		}
	})
}

func TestArchiveService_CreateFond(t *testing.T) {
	ctx := context.Background()

	t.Run("numbers fonds per classification", func(t *testing.T) {
		f := newFixture(t, date(2024, time.January))
		f.seed(t)
		if _, err := f.svc.CreateClassification(ctx, "B", "Business", ""); err != nil {
			t.Fatalf("CreateClassification() error = %v", err)
		}

		var got []string
		for _, code := range []string{"A", "A", "B"} {
			res, err := f.svc.CreateFond(ctx, archive.CreateFondInput{ClassificationCode: code, Name: "x"})
			if err != nil {
				t.Fatalf("CreateFond(%s) error = %v", code, err)
			}
			got = append(got, res.Fond.FondNo)
		}
		if want := []string{"A01", "A02", "B01"}; !reflect.DeepEqual(got, want) {
			t.Errorf("fond numbers = %v, want %v", got, want)
		}
	})

	t.Run("stamps provenance and creates the fond directory", func(t *testing.T) {
		f := newFixture(t, date(2024, time.January))
		f.seed(t)
		res := f.createFond(t, "Year")

		fond, err := f.svc.FindFond(ctx, res.Fond.FondNo)
		if err != nil {
			t.Fatalf("FindFond() error = %v", err)
		}
		if fond.CreatedBy != "archivist" || fond.CreatedMachine != "reading-room" {
			t.Errorf("provenance = %s/%s, want archivist/reading-room", fond.CreatedBy, fond.CreatedMachine)
		}
		if !f.fsmgr.HasDirectory(filepath.Join(libraryRoot, "A01")) {
			t.Error("fond directory was not created")
		}
	})

	t.Run("directory failure does not undo the fond", func(t *testing.T) {
		f := newFixture(t, date(2024, time.January))
		f.seed(t)
		f.fsmgr.FailEnsureDir = true

		res := f.createFond(t, "Year")
		if _, err := f.svc.FindFond(ctx, res.Fond.FondNo); err != nil {
			t.Errorf("FindFond() error = %v", err)
		}
	})

	t.Run("unknown schema rolls back everything", func(t *testing.T) {
		f := newFixture(t, date(2024, time.January))
		f.seed(t)

		_, err := f.svc.CreateFond(ctx, archive.CreateFondInput{ClassificationCode: "A", Name: "x", SchemaNos: []string{"Nope"}})
		if !errors.Is(err, archive.ErrNotFound) {
			t.Fatalf("CreateFond() error = %v, want ErrNotFound", err)
		}

		res := f.createFond(t)
		if res.Fond.FondNo != "A01" {
			t.Errorf("FondNo after failed create = %q, want A01", res.Fond.FondNo)
		}
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		f := newFixture(t, date(2024, time.January))
		f.seed(t)
		if err := f.svc.SetClassificationActive(ctx, "A", false); err != nil {
			t.Fatalf("SetClassificationActive() error = %v", err)
		}

		tests := []struct {
			name string
			in   archive.CreateFondInput
			want error
		}{
			{"inactive classification", archive.CreateFondInput{ClassificationCode: "A", Name: "x"}, archive.ErrValidation},
			{"unknown classification", archive.CreateFondInput{ClassificationCode: "Z", Name: "x"}, archive.ErrNotFound},
			{"empty name", archive.CreateFondInput{ClassificationCode: "A", Name: " "}, archive.ErrValidation},
			{"schema twice", archive.CreateFondInput{ClassificationCode: "A", Name: "x", SchemaNos: []string{"Year", "Year"}}, archive.ErrValidation},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := f.svc.CreateFond(ctx, tt.in); !errors.Is(err, tt.want) {
					t.Errorf("CreateFond() error = %v, want %v", err, tt.want)
				}
			})
		}
	})
}

func TestArchiveService_FondLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, date(2024, time.January))
	f.seed(t)
	res := f.createFond(t, "Year", "Dept")
	fondNo := res.Fond.FondNo

	if err := f.svc.RenameFond(ctx, fondNo, "Council minutes"); err != nil {
		t.Fatalf("RenameFond() error = %v", err)
	}
	fond, _ := f.svc.FindFond(ctx, fondNo)
	if fond.Name != "Council minutes" {
		t.Errorf("Name = %q, want %q", fond.Name, "Council minutes")
	}

	schemas, err := f.svc.FondSchemas(ctx, fondNo)
	if err != nil {
		t.Fatalf("FondSchemas() error = %v", err)
	}
	if len(schemas) != 2 || schemas[0].SchemaNo != "Year" || schemas[1].SchemaNo != "Dept" {
		t.Errorf("FondSchemas() = %v, want [Year Dept]", schemas)
	}

	file, err := f.svc.CreateFile(ctx, archive.CreateFileInput{FondNo: fondNo, SeriesNo: "2024-HR", Name: "Hiring"})
	if err != nil {
		t.Fatalf("CreateFile() error = %v", err)
	}

	if err := f.svc.DeleteFond(ctx, fondNo); !errors.Is(err, archive.ErrValidation) {
		t.Errorf("DeleteFond() with files error = %v, want ErrValidation", err)
	}
	if err := f.svc.DeleteSeries(ctx, fondNo, "2024-HR"); !errors.Is(err, archive.ErrValidation) {
		t.Errorf("DeleteSeries() with files error = %v, want ErrValidation", err)
	}
	if err := f.svc.DeleteSeries(ctx, fondNo, "2024-FIN"); err != nil {
		t.Errorf("DeleteSeries() error = %v", err)
	}

	if err := f.svc.DeleteFile(ctx, file.FileNo); err != nil {
		t.Fatalf("DeleteFile() error = %v", err)
	}
	if err := f.svc.DeleteFond(ctx, fondNo); err != nil {
		t.Fatalf("DeleteFond() error = %v", err)
	}
	if _, err := f.svc.FindFond(ctx, fondNo); !errors.Is(err, archive.ErrNotFound) {
		t.Errorf("FindFond() after delete error = %v, want ErrNotFound", err)
	}
	before, err := f.svc.ListSchemas(ctx)
	if err != nil {
		t.Fatalf("ListSchemas() error = %v", err)
	}
	if err := f.svc.DeleteSchema(ctx, "Dept"); err != nil {
		t.Fatalf("DeleteSchema() after fond delete error = %v", err)
	}
	after, err := f.svc.ListSchemas(ctx)
	if err != nil {
		t.Fatalf("ListSchemas() error = %v", err)
	}
	if len(after) != len(before)-1 {
		t.Errorf("len(ListSchemas()) = %d after delete, want %d", len(after), len(before)-1)
	}
	for _, sc := range after {
		if sc.SchemaNo == "Dept" {
			t.Error("ListSchemas() still contains Dept after delete")
		}
	}
}

func TestArchiveService_ProtectedSchema(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, date(2024, time.January))
	f.seed(t)

	checks := map[string]error{
		"create":      func() error { _, err := f.svc.CreateSchema(ctx, "Year", "Years"); return err }(),
		"rename":      func() error { _, err := f.svc.RenameSchema(ctx, "Year", "Years", ""); return err }(),
		"rename onto": func() error { _, err := f.svc.RenameSchema(ctx, "Dept", "Year", ""); return err }(),
		"delete":      f.svc.DeleteSchema(ctx, "Year"),
		"add item":    func() error { _, err := f.svc.AddSchemaItem(ctx, "Year", "2030", ""); return err }(),
		"delete item": f.svc.DeleteSchemaItem(ctx, "Year", "2024"),
	}
	for op, err := range checks {
		if !errors.Is(err, archive.ErrValidation) {
			t.Errorf("%s Year: error = %v, want ErrValidation", op, err)
		}
	}

	schemas, err := f.svc.ListSchemas(ctx)
	if err != nil {
		t.Fatalf("ListSchemas() error = %v", err)
	}
	if schemas[0].SchemaNo != "Year" || schemas[0].Name != "Year" {
		t.Errorf("first schema = %+v, want untouched Year", schemas[0])
	}
}

func TestArchiveService_Schemas(t *testing.T) {
	ctx := context.Background()

	t.Run("referenced schema cannot be deleted", func(t *testing.T) {
		f := newFixture(t, date(2024, time.January))
		f.seed(t)
		f.createFond(t, "Dept")

		err := f.svc.DeleteSchema(ctx, "Dept")
		if !errors.Is(err, archive.ErrValidation) {
			t.Fatalf("DeleteSchema() error = %v, want ErrValidation", err)
		}
		items, _ := f.svc.ListSchemaItems(ctx, "Dept")
		if len(items) != 2 {
			t.Errorf("items after refused delete = %d, want 2", len(items))
		}
	})

	t.Run("rename keeps items", func(t *testing.T) {
		f := newFixture(t, date(2024, time.January))
		f.seed(t)

		if _, err := f.svc.RenameSchema(ctx, "Dept", "Unit", "Business unit"); err != nil {
			t.Fatalf("RenameSchema() error = %v", err)
		}
		items, err := f.svc.ListSchemaItems(ctx, "Unit")
		if err != nil {
			t.Fatalf("ListSchemaItems() error = %v", err)
		}
		if len(items) != 2 || items[0].ItemNo != "HR" || items[1].ItemNo != "FIN" {
			t.Errorf("ListSchemaItems() = %v, want [HR FIN]", items)
		}
	})

	t.Run("item validation", func(t *testing.T) {
		f := newFixture(t, date(2024, time.January))
		f.seed(t)

		for _, no := range []string{"HR", "", "A-B"} {
			if _, err := f.svc.AddSchemaItem(ctx, "Dept", no, ""); !errors.Is(err, archive.ErrValidation) {
				t.Errorf("AddSchemaItem(%q) error = %v, want ErrValidation", no, err)
			}
		}
		if err := f.svc.DeleteSchemaItem(ctx, "Dept", "HR"); err != nil {
			t.Errorf("DeleteSchemaItem() error = %v", err)
		}
		if err := f.svc.DeleteSchemaItem(ctx, "Dept", "HR"); !errors.Is(err, archive.ErrNotFound) {
			t.Errorf("second DeleteSchemaItem() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("duplicate schema", func(t *testing.T) {
		f := newFixture(t, date(2024, time.January))
		f.seed(t)
		if _, err := f.svc.CreateSchema(ctx, "Dept", ""); !errors.Is(err, archive.ErrValidation) {
			t.Errorf("CreateSchema() error = %v, want ErrValidation", err)
		}
	})
}

func TestArchiveService_FilesAndItems(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, date(2024, time.January))
	f.seed(t)
	fondNo := f.createFond(t, "Year", "Dept").Fond.FondNo

	first, err := f.svc.CreateFile(ctx, archive.CreateFileInput{FondNo: fondNo, SeriesNo: "2024-HR", Name: "Hiring"})
	if err != nil {
		t.Fatalf("CreateFile() error = %v", err)
	}
	second, err := f.svc.CreateFile(ctx, archive.CreateFileInput{FondNo: fondNo, SeriesNo: "2024-HR", Name: "Payroll", Path: "/shared/payroll"})
	if err != nil {
		t.Fatalf("CreateFile() error = %v", err)
	}
	other, err := f.svc.CreateFile(ctx, archive.CreateFileInput{FondNo: fondNo, SeriesNo: "2024-FIN", Name: "Budget"})
	if err != nil {
		t.Fatalf("CreateFile() error = %v", err)
	}

	for _, c := range []struct{ got, want string }{
		{first.FileNo, "A01-2024-HR-01"},
		{second.FileNo, "A01-2024-HR-02"},
		{other.FileNo, "A01-2024-FIN-01"},
		{first.Path, filepath.Join(libraryRoot, "A01", "A01-2024-HR-01")},
		{second.Path, "/shared/payroll"},
	} {
		if c.got != c.want {
			t.Errorf("got %q, want %q", c.got, c.want)
		}
	}
	if !f.fsmgr.HasDirectory(first.Path) {
		t.Error("file directory was not created")
	}

	if _, err := f.svc.CreateFile(ctx, archive.CreateFileInput{FondNo: fondNo, SeriesNo: "1999-HR", Name: "x"}); !errors.Is(err, archive.ErrNotFound) {
		t.Errorf("CreateFile() unknown series error = %v, want ErrNotFound", err)
	}

	item, err := f.svc.CreateItem(ctx, first.FileNo, "Offer letter", "")
	if err != nil {
		t.Fatalf("CreateItem() error = %v", err)
	}
	if item.ItemNo != "A01-2024-HR-01-01" {
		t.Errorf("ItemNo = %q, want %q", item.ItemNo, "A01-2024-HR-01-01")
	}

	if err := f.svc.RenameItem(ctx, item.ItemNo, "Signed offer letter"); err != nil {
		t.Fatalf("RenameItem() error = %v", err)
	}
	if err := f.svc.RenameFile(ctx, first.FileNo, "Hiring 2024"); err != nil {
		t.Fatalf("RenameFile() error = %v", err)
	}
	files, err := f.svc.ListFiles(ctx, fondNo, "2024-HR")
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	if len(files) != 2 || files[0].Name != "Hiring 2024" {
		t.Errorf("ListFiles() = %v, want renamed first file", files)
	}

	if err := f.svc.DeleteFile(ctx, first.FileNo); !errors.Is(err, archive.ErrValidation) {
		t.Errorf("DeleteFile() with items error = %v, want ErrValidation", err)
	}
	if err := f.svc.DeleteItem(ctx, item.ItemNo); err != nil {
		t.Fatalf("DeleteItem() error = %v", err)
	}
	if err := f.svc.DeleteFile(ctx, first.FileNo); err != nil {
		t.Errorf("DeleteFile() error = %v", err)
	}
}

func TestArchiveService_ImportItems(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, date(2024, time.January))
	f.seed(t)
	fondNo := f.createFond(t, "Year", "Dept").Fond.FondNo
	file, err := f.svc.CreateFile(ctx, archive.CreateFileInput{FondNo: fondNo, SeriesNo: "2024-FIN", Name: "Invoices"})
	if err != nil {
		t.Fatalf("CreateFile() error = %v", err)
	}

	f.fsmgr.AddFile("/scans/inv-002.pdf", []byte("b"))
	f.fsmgr.AddFile("/scans/inv-001.pdf", []byte("a"))
	f.fsmgr.AddFile("/scans/late/inv-003.pdf", []byte("c"))

	items, err := f.svc.ImportItems(ctx, file.FileNo, "/scans", false)
	if err != nil {
		t.Fatalf("ImportItems() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(ImportItems()) = %d, want 2", len(items))
	}
	if items[0].Name != "inv-001" || items[0].ItemNo != "A01-2024-FIN-01-01" || items[0].Path != "/scans/inv-001.pdf" {
		t.Errorf("first item = %+v", items[0])
	}

	more, err := f.svc.ImportItems(ctx, file.FileNo, "/scans/late", true)
	if err != nil {
		t.Fatalf("ImportItems() error = %v", err)
	}
	if len(more) != 1 || more[0].ItemNo != "A01-2024-FIN-01-03" {
		t.Errorf("ImportItems() = %v, want item 03", more)
	}

	if _, err := f.svc.ImportItems(ctx, file.FileNo, "/scans/inv-001.pdf", false); !errors.Is(err, archive.ErrValidation) {
		t.Errorf("ImportItems() on a file error = %v, want ErrValidation", err)
	}

	listed, err := f.svc.ListItems(ctx, file.FileNo)
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if len(listed) != 3 {
		t.Errorf("len(ListItems()) = %d, want 3", len(listed))
	}
}

func TestArchiveService_Classifications(t *testing.T) {
	ctx := context.Background()

	build := func(t *testing.T, f *fixture) {
		t.Helper()
		for _, c := range [][3]string{
			{"A", "Administration", ""},
			{"B", "Business", ""},
			{"A1", "Board", "A"},
			{"A2", "Personnel", "A"},
		} {
			if _, err := f.svc.CreateClassification(ctx, c[0], c[1], c[2]); err != nil {
				t.Fatalf("CreateClassification(%s) error = %v", c[0], err)
			}
		}
	}

	t.Run("lists parents before children", func(t *testing.T) {
		f := newFixture(t, date(2024, time.January))
		build(t, f)

		list, err := f.svc.ListClassifications(ctx)
		if err != nil {
			t.Fatalf("ListClassifications() error = %v", err)
		}
		var got []string
		for _, c := range list {
			got = append(got, c.Code)
		}
		if want := []string{"A", "A1", "A2", "B"}; !reflect.DeepEqual(got, want) {
			t.Errorf("ListClassifications() = %v, want %v", got, want)
		}
	})

	t.Run("create validation", func(t *testing.T) {
		f := newFixture(t, date(2024, time.January))
		build(t, f)

		if _, err := f.svc.CreateClassification(ctx, "A", "again", ""); !errors.Is(err, archive.ErrValidation) {
			t.Errorf("duplicate code error = %v, want ErrValidation", err)
		}
		if _, err := f.svc.CreateClassification(ctx, "C1", "orphan", "C"); !errors.Is(err, archive.ErrNotFound) {
			t.Errorf("missing parent error = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete rules", func(t *testing.T) {
		f := newFixture(t, date(2024, time.January))
		build(t, f)
		if _, err := f.svc.CreateFond(ctx, archive.CreateFondInput{ClassificationCode: "B", Name: "Trade"}); err != nil {
			t.Fatalf("CreateFond() error = %v", err)
		}

		if err := f.svc.DeleteClassification(ctx, "A"); !errors.Is(err, archive.ErrValidation) {
			t.Errorf("delete with children error = %v, want ErrValidation", err)
		}
		if err := f.svc.DeleteClassification(ctx, "B"); !errors.Is(err, archive.ErrValidation) {
			t.Errorf("delete with fonds error = %v, want ErrValidation", err)
		}
		if err := f.svc.DeleteClassification(ctx, "A2"); err != nil {
			t.Errorf("DeleteClassification() error = %v", err)
		}
	})

	t.Run("export and import", func(t *testing.T) {
		src := newFixture(t, date(2024, time.January))
		build(t, src)
		if err := src.svc.SetClassificationActive(ctx, "B", false); err != nil {
			t.Fatalf("SetClassificationActive() error = %v", err)
		}

		tree, err := src.svc.ClassificationTree(ctx)
		if err != nil {
			t.Fatalf("ClassificationTree() error = %v", err)
		}
		if len(tree) != 2 || len(tree[0].Children) != 2 || tree[1].Active {
			t.Fatalf("ClassificationTree() = %+v, want A(A1,A2) and inactive B", tree)
		}

		dst := newFixture(t, date(2024, time.January))
		created, err := dst.svc.ImportClassifications(ctx, tree)
		if err != nil {
			t.Fatalf("ImportClassifications() error = %v", err)
		}
		if created != 4 {
			t.Errorf("created = %d, want 4", created)
		}

		again, err := dst.svc.ClassificationTree(ctx)
		if err != nil {
			t.Fatalf("ClassificationTree() error = %v", err)
		}
		if !reflect.DeepEqual(again, tree) {
			t.Errorf("imported tree differs from exported tree")
		}

		created, err = dst.svc.ImportClassifications(ctx, tree)
		if err != nil {
			t.Fatalf("second ImportClassifications() error = %v", err)
		}
		if created != 0 {
			t.Errorf("second import created = %d, want 0", created)
		}
	})
}

func TestArchiveService_Sequences(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, date(2024, time.January))
	f.seed(t)
	f.createFond(t)

	if err := f.svc.ResetSequence(ctx, "A", 0); !errors.Is(err, archive.ErrValidation) {
		t.Errorf("ResetSequence(0) error = %v, want ErrValidation", err)
	}
	if err := f.svc.ResetSequence(ctx, "A", 10); err != nil {
		t.Fatalf("ResetSequence() error = %v", err)
	}
	if got := f.createFond(t).Fond.FondNo; got != "A10" {
		t.Errorf("FondNo after reset = %q, want A10", got)
	}

	seqs, err := f.svc.Sequences(ctx)
	if err != nil {
		t.Fatalf("Sequences() error = %v", err)
	}
	if len(seqs) != 1 || seqs[0].Prefix != "A" || seqs[0].NextValue != 11 {
		t.Errorf("Sequences() = %+v, want A at 11", seqs)
	}
}
