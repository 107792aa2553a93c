/*
Package config manages the docmerge source table and its settings.

	            +-------------+
	            |   Config    |
	            |  (Sources)  |
	            +------+------+
	                   |
	    +--------------+--------------+
	    |              |              |
	+---+---+      +---+---+      +---+---+
	| YAML  |      |  HCL  |      | JSON  |
	+-------+      +-------+      +-------+

🎯 Purpose:
- Declares the sources aggregated into the unified documentation tree
- Holds the builder and preview server settings
- Falls back to the built-in HED source table when no file is present

🔄 Flow:
1. Discover looks for docmerge.{yaml,yml,hcl,json} in the repository root
2. The matching parser decodes the file, rejecting unknown keys
3. Defaults fill unset fields, .env and process environment override them
4. Validate rejects duplicate names and paths escaping their directories

🔍 Example:

	cfg, err := config.Discover(ctx, ".", "")
	if err != nil {
		return err
	}
	for _, src := range cfg.Sources {
		fmt.Println(src.Name, cfg.SourcePath(src), "->", cfg.DestPath(src))
	}

HCL sources are labeled blocks:

	source "hed-mcp" {
	  path           = "hed-mcp"
	  files          = ["README.md", "EXAMPLES.md", "API.md"]
	  index_template = "hed-mcp-index.rst"
	}
*/
package config
