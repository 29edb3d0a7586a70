// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package eval

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	bestStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)

// Render writes the strategy comparison table, the per-case breakdown and
// the recommended calibration to w.
func (r *Report) Render(w io.Writer) error {
	rows := make([][]string, 0, len(r.Strategies))
	for _, s := range r.Strategies {
		rows = append(rows, []string{
			s.Name,
			fmt.Sprintf("%.1f%%", s.Precision*100),
			fmt.Sprintf("%.3f", s.MRR),
			fmt.Sprintf("%.2f-%.2f", s.MinScore, s.MaxScore),
			fmt.Sprintf("%.3f", s.Spread),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == 0 {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("Strategy", fmt.Sprintf("Precision@%d", r.K), "MRR", "Score Range", "Score Spread").
		Rows(rows...)

	var b strings.Builder
	b.WriteString(t.Render())
	b.WriteString("\n")

	for _, s := range r.Strategies {
		fmt.Fprintf(&b, "\n%s\n", s.Name)
		for _, c := range s.Cases {
			fmt.Fprintf(&b, "  %-28s P@%d %5.1f%%  RR %.3f  top %.3f  %s\n",
				c.Name, r.K, c.Precision*100, c.ReciprocalRank, c.TopScore, strings.Join(c.Top, ", "))
		}
	}

	if best := r.Best(); best != nil {
		b.WriteString("\n")
		b.WriteString(bestStyle.Render(fmt.Sprintf("Best: %s (%.1f%% precision, MRR %.3f)", best.Name, best.Precision*100, best.MRR)))
		b.WriteString("\n")
		if cal, err := r.Recommend(DefaultMargin); err == nil {
			fmt.Fprintf(&b, "Recommended calibration: min_sim %.2f, max_sim %.2f, display %.0f%%-%.0f%%\n",
				cal.MinSim, cal.MaxSim, cal.DisplayFloor*100, cal.DisplayCeiling*100)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
