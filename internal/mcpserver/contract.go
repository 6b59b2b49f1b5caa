package mcpserver

// ReportFormatContract describes the CSV report written by the extract_report tool
// so that LLM consumers can interpret it without reading the source.
const ReportFormatContract = `# evalview Report Format

The extractor reads every ` + "`" + `.md` + "`" + ` file directly inside the source directory
(subdirectories and other extensions are ignored) and writes one CSV row per file.

## Columns

| Column | Meaning |
|---|---|
| file-name | File name without the ` + "`" + `.md` + "`" + ` extension |
| description | First non-blank line, with one leading ` + "`" + `#` + "`" + ` removed and trimmed |
| character-count | Number of Unicode code points in the file |
| code-character-count | Code points inside triple-backtick fences, excluding the backticks |
| code-percentage | code-character-count / character-count * 100, two decimals |
| number-of-code-blocks | Number of matched fence pairs |

## Rules

1. The header row is always present, even when the directory has no outputs.
2. Rows are ordered by the first number in the file name (` + "`" + `output2` + "`" + ` before
   ` + "`" + `output10` + "`" + `); files without a number follow, by name.
3. Fences are matched lexically and lazily: an unmatched trailing fence counts as prose.
4. Line endings are normalised to LF before counting.
5. A file that cannot be read or is not UTF-8 aborts the whole run; the previous report is kept.
6. Report rows end in CRLF.
`
