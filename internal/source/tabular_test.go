package source

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadTable_NormalizesAndAliasesHeaders(t *testing.T) {
	in := " Campanha ,GASTO,impressoes,Cliques,CTR,cpv,conversoes\n" +
		"Remarketing,12400.5,480000,9200,1.92,0.026,340\n" +
		"Broken,abc,10,1,,,0\n"

	tbl, err := ReadTable(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if !tbl.Has(ColCampaign) || !tbl.Has(ColSpend) || !tbl.Has(ColCTR) {
		t.Fatalf("Columns = %v", tbl.Columns)
	}

	parsed := ParseCampaigns(tbl)
	if len(parsed.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(parsed.Rows))
	}
	if parsed.Invalid != 1 {
		t.Errorf("Invalid = %d, want 1", parsed.Invalid)
	}
	r := parsed.Rows[0]
	if r.Campaign != "Remarketing" || r.Spend != 12400.5 || r.Conversions != 340 {
		t.Errorf("row 0 = %+v", r)
	}
	if parsed.Rows[1].Spend != 0 {
		t.Errorf("unparseable spend = %v, want 0", parsed.Rows[1].Spend)
	}
}

func TestReadTable_Empty(t *testing.T) {
	if _, err := ReadTable(strings.NewReader("")); err != ErrNoHeader {
		t.Errorf("err = %v, want ErrNoHeader", err)
	}
}

func TestParseFunnel_PositionsFollowRows(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader("estagio,quantidade\nImpressions,100\nClicks,10\n"))
	if err != nil {
		t.Fatal(err)
	}
	stages := ParseFunnel(tbl).Rows
	if len(stages) != 2 || stages[0].Position != 1 || stages[1].Position != 2 {
		t.Fatalf("stages = %+v", stages)
	}
	if stages[1].Name != "Clicks" || stages[1].Count != 10 {
		t.Errorf("stage 2 = %+v", stages[1])
	}
}

func TestParseFunnel_HugeCountSaturates(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader("stage,count\nImpressions,1e20\n"))
	if err != nil {
		t.Fatal(err)
	}
	stages := ParseFunnel(tbl).Rows
	if len(stages) != 1 || stages[0].Count != math.MaxInt64 {
		t.Fatalf("stages = %+v, want count MaxInt64", stages)
	}
}

func TestParseDemographics_ShortRowsPad(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader("age,gender,spend,impressions,clicks\n18-24,Male\n"))
	if err != nil {
		t.Fatal(err)
	}
	rows := ParseDemographics(tbl).Rows
	if len(rows) != 1 || rows[0].Age != "18-24" || rows[0].Spend != 0 {
		t.Errorf("rows = %+v", rows)
	}
}

func TestScanDir_KnownFilesFirst(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"aaa_custom.csv", FileFunnel, FileCampaigns, "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	files, err := ScanDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("files = %d, want 3 (txt skipped)", len(files))
	}
	if !files[0].Known || !files[1].Known || files[2].Known {
		t.Errorf("order = %s, %s, %s", files[0].Name, files[1].Name, files[2].Name)
	}

	missing, err := ScanDir(filepath.Join(dir, "nope"))
	if err != nil || missing != nil {
		t.Errorf("ScanDir(missing) = %v, %v", missing, err)
	}
}
