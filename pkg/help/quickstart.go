package help

const QuickstartYAML = `# wordfreq Quick Start

sources:
  url: "HTML pages are reduced to their article text; anything else is counted as-is"
  file: "Local text file, or '-' for stdin"

commands:
  top_words: |
    wordfreq count --url "https://www.gutenberg.org/files/11/11-0.txt" --top 10

  local_file: |
    wordfreq count --file notes.txt --top 20

  stdin: |
    cat notes.txt | wordfreq count --file -

  selected_words: |
    wordfreq count --file notes.txt --words "the,cat,mat"

  content_words_only: |
    wordfreq count --url "https://example.com" --skip-stopwords --chart

  machine_readable: |
    wordfreq count --file notes.txt --format json
    wordfreq count --file notes.txt --output report.yaml

  history: |
    wordfreq history list
    wordfreq history show 5
    wordfreq history delete 5

counting_rules:
  - "Tokens are split on whitespace"
  - "Punctuation is removed, not replaced: don't -> dont"
  - "Counting is case-sensitive: The and the are different words"
  - "--words keeps only exact matches; unlisted words are dropped"
  - "Ties in the top list keep the order words first appeared in"

caching:
  - "URL responses are cached in .wordfreq-cache for --max-age (default 24h)"
  - "--force-fetch ignores the cache"

error_behavior:
  - "Invalid arguments: fail before any text is read"
  - "Exit codes: 0=success, 1=invalid argument, 2=source unavailable or pipeline failure"
`
