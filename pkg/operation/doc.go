/*
Package operation implements the docmerge aggregation run.

	+-------------+      +-------------+      +-------------+
	|   Sources   | ---> |  Aggregate  | ---> |  docs tree  |
	| (submodules)|      | copy, strip |      | (per source)|
	+-------------+      +------+------+      +-------------+
	                            |
	                     +------+------+
	                     |   Runner    |
	                     | (sequence)  |
	                     +-------------+

🎯 Purpose:
- Copies the declared files and directories of every source into its destination
- Strips generated index sections from copied index documents
- Installs index templates for sources that ship no index document
- Removes aggregated output on clean

🔄 Flow per source:
1. Skip with a warning when the source directory is absent
2. Delete and recreate the destination directory
3. Copy each declared item, warning about absent ones
4. Copy the static assets directory when present
5. Copy the index template when declared and no native index exists

Every filesystem side effect goes through fsys.FS, so the whole run can be
exercised against fsys.Memory.

🔍 Example:

	op := operation.NewAggregateOperation(operation.Options{Config: cfg})
	if err := operation.NewRunner(zerolog.Ctx(ctx)).Run(ctx, op); err != nil {
		return err
	}
	fmt.Println(op.Report().Skipped())
*/
package operation
