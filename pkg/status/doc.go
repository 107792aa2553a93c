/*
Package status reports the availability of every configured source.

🎯 Purpose:
- Checks which source checkouts exist and which declared items they lack
- Shows whether each source has been aggregated
- Shows the submodule revision a source is read from

🔍 Example:

	statuses, err := status.Collect(ctx, cfg, fsys.NewOS(), revision.Short)
	if err != nil {
		return err
	}
	table, err := status.NewDefaultFormatter().FormatTable(statuses)
*/
package status
