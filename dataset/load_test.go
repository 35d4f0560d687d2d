package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"

	"github.com/showheat/showheat"
)

func TestFromCSV(t *testing.T) {
	Convey("Given a grid with header and row labels", t, func() {
		src := strings.Join([]string{
			"season,E1,E2,E3",
			"S1,8.1,8.4,7.7",
			"S2,7.9,-,9.0",
		}, "\n")

		tbl, err := FromCSV(strings.NewReader(src), LoadOptions{Header: true, RowLabels: true})
		So(err, ShouldBeNil)

		Convey("labels are consumed from the edges", func() {
			So(tbl.ColLabels, ShouldResemble, []string{"E1", "E2", "E3"})
			So(tbl.RowLabels, ShouldResemble, []string{"S1", "S2"})
		})

		Convey("numeric cells parse in place", func() {
			So(tbl.Cells[0][0], ShouldEqual, 8.1)
			So(tbl.Cells[1][2], ShouldEqual, 9.0)
		})

		Convey("the dash marker becomes a missing cell", func() {
			So(showheat.IsMissing(tbl.Cells[1][1]), ShouldBeTrue)
		})
	})

	Convey("Given a bare grid with gaps", t, func() {
		src := "6.5,,7.2\n8.0,na,N/A"

		tbl, err := FromCSV(strings.NewReader(src), LoadOptions{})
		So(err, ShouldBeNil)

		Convey("no labels are invented", func() {
			So(tbl.RowLabels, ShouldBeNil)
			So(tbl.ColLabels, ShouldBeNil)
		})

		Convey("blank and na cells are missing", func() {
			So(showheat.IsMissing(tbl.Cells[0][1]), ShouldBeTrue)
			So(showheat.IsMissing(tbl.Cells[1][1]), ShouldBeTrue)
			So(showheat.IsMissing(tbl.Cells[1][2]), ShouldBeTrue)
		})
	})

	Convey("Given a grid with zero placeholders", t, func() {
		src := "8.1,0\n0,7.2"

		tbl, err := FromCSV(strings.NewReader(src), LoadOptions{MaskZero: true})
		So(err, ShouldBeNil)

		Convey("zeros mask to missing", func() {
			So(showheat.IsMissing(tbl.Cells[0][1]), ShouldBeTrue)
			So(showheat.IsMissing(tbl.Cells[1][0]), ShouldBeTrue)
			So(tbl.Cells[1][1], ShouldEqual, 7.2)
		})
	})

	Convey("Given a grid with a non-numeric cell", t, func() {
		src := "season,E1\nS1,8.1\nS2,oops"

		_, err := FromCSV(strings.NewReader(src), LoadOptions{Header: true, RowLabels: true})

		Convey("the error names the data cell", func() {
			var de *showheat.DataError
			So(errors.As(err, &de), ShouldBeTrue)
			So(de.Row, ShouldEqual, 1)
			So(de.Col, ShouldEqual, 0)
			So(errors.Is(err, showheat.ErrBadValue), ShouldBeTrue)
		})
	})

	Convey("Given only a header row", t, func() {
		_, err := FromCSV(strings.NewReader("season,E1,E2\n"), LoadOptions{Header: true})

		Convey("parsing reports no data", func() {
			So(errors.Is(err, showheat.ErrNoData), ShouldBeTrue)
		})
	})
}

func TestFromJSON(t *testing.T) {
	Convey("Given a show document", t, func() {
		src := `{
			"title": "Example",
			"seasons": [
				{"number": 1, "episodes": [
					{"number": 1, "rating": 8.1},
					{"number": 2, "rating": null}
				]}
			]
		}`

		show, err := FromJSON(strings.NewReader(src))
		So(err, ShouldBeNil)

		Convey("the document decodes with null ratings as nil", func() {
			So(show.Title, ShouldEqual, "Example")
			So(show.Seasons, ShouldHaveLength, 1)
			So(show.Seasons[0].Episodes[0].Rating, ShouldNotBeNil)
			So(*show.Seasons[0].Episodes[0].Rating, ShouldEqual, 8.1)
			So(show.Seasons[0].Episodes[1].Rating, ShouldBeNil)
		})
	})

	Convey("Given a document without seasons", t, func() {
		_, err := FromJSON(strings.NewReader(`{"title": "Empty"}`))

		Convey("decoding reports no data", func() {
			So(errors.Is(err, showheat.ErrNoData), ShouldBeTrue)
		})
	})
}

func TestFromYAML(t *testing.T) {
	Convey("Given a show document", t, func() {
		src := strings.Join([]string{
			"title: Example",
			"seasons:",
			"  - number: 1",
			"    episodes:",
			"      - number: 1",
			"        rating: 8.1",
			"      - number: 2",
			"        rating: null",
		}, "\n")

		show, err := FromYAML(strings.NewReader(src))
		So(err, ShouldBeNil)

		Convey("the document decodes", func() {
			So(show.Title, ShouldEqual, "Example")
			So(*show.Seasons[0].Episodes[0].Rating, ShouldEqual, 8.1)
			So(show.Seasons[0].Episodes[1].Rating, ShouldBeNil)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given fixture files on disk", t, func() {
		dir := t.TempDir()

		write := func(name, body string) string {
			path := filepath.Join(dir, name)
			So(os.WriteFile(path, []byte(body), 0o644), ShouldBeNil)
			return path
		}

		Convey("a csv file loads as a grid", func() {
			path := write("ratings.csv", "8.1,8.4\n7.9,9.0\n")
			tbl, err := Load(path, LoadOptions{})
			So(err, ShouldBeNil)
			So(tbl.Cells[1][1], ShouldEqual, 9.0)
		})

		Convey("a tsv file loads with tab separators", func() {
			path := write("ratings.tsv", "8.1\t8.4\n7.9\t9.0\n")
			tbl, err := Load(path, LoadOptions{})
			So(err, ShouldBeNil)
			So(tbl.Cells[0][1], ShouldEqual, 8.4)
		})

		Convey("a json show flattens into a labeled grid", func() {
			path := write("show.json", `{"title":"Example","seasons":[{"number":1,"episodes":[{"number":1,"rating":8.1},{"number":2,"rating":0}]}]}`)
			tbl, err := Load(path, LoadOptions{MaskZero: true})
			So(err, ShouldBeNil)
			So(tbl.RowLabels, ShouldResemble, []string{"S1"})
			So(tbl.Cells[0][0], ShouldEqual, 8.1)
			So(showheat.IsMissing(tbl.Cells[0][1]), ShouldBeTrue)
		})

		Convey("a yaml show flattens", func() {
			path := write("show.yaml", "seasons:\n  - number: 1\n    episodes:\n      - number: 1\n        rating: 7.5\n")
			tbl, err := Load(path, LoadOptions{})
			So(err, ShouldBeNil)
			So(tbl.Cells[0][0], ShouldEqual, 7.5)
		})

		Convey("an xlsx workbook loads through its first sheet", func() {
			path := filepath.Join(dir, "ratings.xlsx")
			f := excelize.NewFile()
			sheet := f.GetSheetList()[0]
			So(f.SetCellValue(sheet, "A1", 8.1), ShouldBeNil)
			So(f.SetCellValue(sheet, "B1", 8.4), ShouldBeNil)
			So(f.SetCellValue(sheet, "A2", 7.9), ShouldBeNil)
			So(f.SetCellValue(sheet, "B2", 9.0), ShouldBeNil)
			So(f.SaveAs(path), ShouldBeNil)
			So(f.Close(), ShouldBeNil)

			tbl, err := Load(path, LoadOptions{})
			So(err, ShouldBeNil)
			So(tbl.Cells[0][0], ShouldEqual, 8.1)
			So(tbl.Cells[1][1], ShouldEqual, 9.0)
		})

		Convey("an unknown extension is rejected", func() {
			path := write("ratings.txt", "1,2\n")
			_, err := Load(path, LoadOptions{})
			So(errors.Is(err, ErrUnsupportedFormat), ShouldBeTrue)
		})
	})
}
