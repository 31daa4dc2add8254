package binfile

import (
	"fmt"
	"github.com/dasnellings/cnvPartition/cnv"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"sort"
	"strconv"
	"strings"
)

// Fai holds the reference sequence names and lengths of a fasta index in file order.
type Fai struct {
	contigs []Contig       // for search by index
	nameMap map[string]int // maps chr name to index in contigs
}

// Contig is one line of a fai file reduced to the fields used for layout.
type Contig struct {
	Name string
	Len  int
}

func (c Contig) String() string {
	return fmt.Sprintf("%s\t%d", c.Name, c.Len)
}

// String method for Fai enables easy writing with the fmt package.
func (f *Fai) String() string {
	answer := new(strings.Builder)
	for i := range f.contigs {
		answer.WriteString(f.contigs[i].String())
		answer.WriteByte('\n')
	}
	return answer.String()
}

// ReadFai reads a fai index. Only the name and length columns are used but every line
// must carry the five standard columns.
func ReadFai(filename string) (*Fai, error) {
	file := fileio.EasyOpen(filename)
	answer := &Fai{nameMap: make(map[string]int)}
	var curr Contig
	var line string
	var done bool
	var col []string
	var err error
	for line, done = fileio.EasyNextRealLine(file); !done; line, done = fileio.EasyNextRealLine(file) {
		col = strings.Split(line, "\t")
		if len(col) != 5 {
			exception.PanicOnErr(file.Close())
			return nil, &cnv.DataError{Unit: filename, Msg: fmt.Sprintf("malformed index line: %s", line)}
		}
		curr.Name = col[0]
		curr.Len, err = strconv.Atoi(col[1])
		if err != nil {
			exception.PanicOnErr(file.Close())
			return nil, &cnv.DataError{Unit: filename, Msg: err.Error()}
		}
		answer.nameMap[curr.Name] = len(answer.contigs)
		answer.contigs = append(answer.contigs, curr)
	}
	err = file.Close()
	exception.PanicOnErr(err)
	return answer, nil
}

// Contigs returns the contigs in index order.
func (f *Fai) Contigs() []Contig {
	return f.contigs
}

// Size returns the length of chr, or -1 if chr is not in the index.
func (f *Fai) Size(chr string) int {
	i, ok := f.nameMap[chr]
	if !ok {
		return -1
	}
	return f.contigs[i].Len
}

// Offsets returns the genome-wide start of every contig when contigs are laid end to end
// in index order.
func (f *Fai) Offsets() map[string]int {
	ans := make(map[string]int, len(f.contigs))
	var pos int
	for i := range f.contigs {
		ans[f.contigs[i].Name] = pos
		pos += f.contigs[i].Len
	}
	return ans
}

// SortSeries reorders the chromosomes of s to follow the index. Chromosomes missing from
// the index keep their relative order after the indexed ones.
func (f *Fai) SortSeries(s *cnv.Series) {
	sort.SliceStable(s.Chroms, func(i, j int) bool {
		return f.rank(s.Chroms[i].Name) < f.rank(s.Chroms[j].Name)
	})
}

func (f *Fai) rank(chr string) int {
	if i, ok := f.nameMap[chr]; ok {
		return i
	}
	return len(f.contigs)
}
