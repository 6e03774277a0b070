package mcpserver

// MetadataContract describes the frontmatter fields managed by the
// classifier and how conflicts with existing values are resolved.
const MetadataContract = `# Ansuz Metadata Contract

Ansuz manages five frontmatter fields on Markdown files in an educational
content vault. All other fields are left untouched.

## Managed fields

` + "```" + `markdown
---
program: MBA                    # Top-level program (degree, certification)
course: Finance 101             # Course within the program
class: Core                     # Class grouping within the course
module: Strategy Fundamentals   # Thematic unit, usually a numbered directory
lesson: Competitive Analysis    # Single teaching unit within a module
---
` + "```" + `

## How values are inferred

1. **Overrides** supplied by the caller always win (program, course, class).
2. **Special programs** configured by literal name are matched
   case-insensitively against path segments.
3. **Index files** (` + "`" + `main-index.md` + "`" + `, ` + "`" + `program-index.md` + "`" + `,
   ` + "`" + `course-index.md` + "`" + `, ` + "`" + `class-index.md` + "`" + `) contribute their
   ` + "`" + `title` + "`" + ` field, nearest directory first.
4. **Path depth** maps the first three directory levels to
   program/course/class.
5. A configured **default program** applies when nothing else does.

Module and lesson come from filename patterns (` + "`" + `Module 1` + "`" + `,
` + "`" + `Lesson 2` + "`" + `, ` + "`" + `01_intro` + "`" + `), directory keywords, and
numbered directory pairs. Labels are normalised: numeric prefixes are
stripped, separators become spaces, camelCase is split, words are
title-cased.

## Conflict policy

- **add** – the field is absent and gets the inferred value.
- **modify** – the existing value is empty, a placeholder such as
  ` + "`" + `[MISSING]` + "`" + `, or the field's own name; it is replaced.
- **preserve** – any other existing value wins; the inferred value is
  discarded for that field.

Hand-curated metadata is therefore never overwritten. To force a value,
set it manually or pass an override.
`
