// Package config maps a ConfigStore onto the domain settings snapshot.
//
// Keys:
//
//	site.content_dir              root of the page tree
//	site.data_dir                 index storage (default ~/.pagesearch/data)
//	site.templates_dir            search templates
//	site.languages                site languages in priority order
//	site.active_language          language used when a call names none
//	search.driver                 "sqlite" (default) or "bleve"
//	search.index_name             index name (default "pages.index")
//	search.filter.items           collection filter, table or YAML string
//	search.filter.published       published option of the filter
//	search.index_page_by_default  default of the search.process page flag
//	search.search_type            "auto" (default), "basic" or "boolean"
//	search.stemmer                stemmer name (default "default")
//	search.limit                  default hit limit (default 20)
//	search.as_you_type            prefix-match the last term (default true)
//	search.fuzzy                  approximate matching (default false)
//	search.snippet                snippet length (default 300)
//	search.phrases                quoted phrase detection (default true)
package config
