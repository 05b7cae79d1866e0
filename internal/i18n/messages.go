package i18n

// loadDefaultMessages はデフォルトの翻訳メッセージを読み込む
func (i *I18n) loadDefaultMessages() {
	i.messages[LocaleJA] = Messages{
		// 一般
		"error":         "エラー",
		"warning":       "警告",
		"caused_by":     "原因",
		"suggestions":   "解決策",
		"documentation": "ドキュメント",
		"no_data":       "データなし",

		// 曜日 (1 = 日曜日)
		"weekday_1": "日",
		"weekday_2": "月",
		"weekday_3": "火",
		"weekday_4": "水",
		"weekday_5": "木",
		"weekday_6": "金",
		"weekday_7": "土",

		// 時間帯
		"bucket_早朝": "早朝",
		"bucket_朝":  "朝",
		"bucket_昼前": "昼前",
		"bucket_昼":  "昼",
		"bucket_夕方": "夕方",
		"bucket_夜":  "夜",
		"bucket_深夜": "深夜",

		// グラフ
		"pie_chart_title":      "タイトル",
		"accident_chart_title": "○○道における曜日別・時間帯別事故発生件数",
		"axis_day":             "曜日",
		"axis_count":           "事故件数",
		"tooltip_day":          "曜日",
		"tooltip_bucket":       "時間帯",
		"tooltip_count":        "件数",

		// ダッシュボード
		"dashboard":       "ダッシュボード",
		"pie_chart":       "円グラフ",
		"accident_chart":  "事故発生件数",
		"refresh":         "更新",
		"language":        "言語",
		"load_failed":     "データの読み込みに失敗しました",
		"category":        "カテゴリ",
		"value":           "値",
		"percentage":      "割合",
		"day":             "曜日",
		"total":           "合計",
		"generated_at":    "生成日時",
		"data_updated":    "データが更新されました",
		"server_starting": "Webダッシュボードを起動しています",

		// CLI
		"rendered":      "グラフを書き出しました: %s",
		"imported":      "%s: %d 件を取り込みました",
		"file_created":  "作成しました: %s",
		"file_exists":   "既に存在するためスキップしました: %s",
		"watching":      "データファイルを監視しています: %s",
		"database_info": "データベース: %s (%s)",
		"last_import":   "最終取り込み",

		"day_totals":         "曜日別合計 (取り込み行 / グラフ)",
		"day_total_mismatch": "%s: 取り込み行の合計 %d とグラフの値 %d が異なります (同じ曜日・時間帯のレコードは後のものが使われます)",

		// エラー
		"file_not_found":      "ファイルが見つかりません: %s",
		"fetch_failed":        "データの取得に失敗しました: %s",
		"parse_failed":        "データの解析に失敗しました: %s",
		"invalid_record":      "不正なレコードです (%s): %s",
		"unsupported_source":  "サポートされていないデータソースです: %s",
		"config_invalid":      "設定が不正です: %s",
		"render_failed":       "グラフの描画に失敗しました: %s",
		"unknown_chart":       "不明なグラフです: %s",
		"invalid_format":      "不明な出力形式です: %s",
		"store_failed":        "ストレージ操作に失敗しました: %s",
		"generic_error":       "予期しないエラーが発生しました",
		"invalid_port":        "無効なポート番号です: %s",
		"invalid_language":    "サポートされていない言語です: %s",
		"missing_output_path": "出力先を指定してください",

		// 提案
		"suggestion_check_file_path":   "ファイルパスを確認してください",
		"suggestion_check_url":         "URLが正しいか確認してください",
		"suggestion_check_network":     "ネットワーク接続を確認してください",
		"suggestion_check_csv_header":  "CSVの1行目にヘッダー行 (例: key,val) があるか確認してください",
		"suggestion_check_json_schema": "JSONは {\"day\":1-7,\"time\":\"朝\",\"count\":0} の配列である必要があります",
		"suggestion_valid_formats":     "利用可能な形式: svg, png",
		"suggestion_valid_charts":      "利用可能なグラフ: pie, accidents",
		"suggestion_valid_port":        "有効なポート番号は 1-65535 です",
		"suggestion_valid_languages":   "利用可能な言語: ja, en",
		"suggestion_check_credentials": "AWSの認証情報とバケット名を確認してください",
	}

	i.messages[LocaleEN] = Messages{
		"error":         "Error",
		"warning":       "Warning",
		"caused_by":     "Caused by",
		"suggestions":   "Suggestions",
		"documentation": "Documentation",
		"no_data":       "No data",

		"weekday_1": "Sun",
		"weekday_2": "Mon",
		"weekday_3": "Tue",
		"weekday_4": "Wed",
		"weekday_5": "Thu",
		"weekday_6": "Fri",
		"weekday_7": "Sat",

		"bucket_早朝": "Early morning",
		"bucket_朝":  "Morning",
		"bucket_昼前": "Late morning",
		"bucket_昼":  "Noon",
		"bucket_夕方": "Evening",
		"bucket_夜":  "Night",
		"bucket_深夜": "Late night",

		"pie_chart_title":      "Title",
		"accident_chart_title": "Accidents by day of week and time of day",
		"axis_day":             "Day of week",
		"axis_count":           "Accidents",
		"tooltip_day":          "Day",
		"tooltip_bucket":       "Time of day",
		"tooltip_count":        "Count",

		"dashboard":       "Dashboard",
		"pie_chart":       "Pie chart",
		"accident_chart":  "Accidents",
		"refresh":         "Refresh",
		"language":        "Language",
		"load_failed":     "Failed to load data",
		"category":        "Category",
		"value":           "Value",
		"percentage":      "Share",
		"day":             "Day",
		"total":           "Total",
		"generated_at":    "Generated at",
		"data_updated":    "Data updated",
		"server_starting": "Starting web dashboard",

		// CLI
		"rendered":      "Chart written: %s",
		"imported":      "%s: imported %d records",
		"file_created":  "Created: %s",
		"file_exists":   "Already exists, skipped: %s",
		"watching":      "Watching data file: %s",
		"database_info": "Database: %s (%s)",
		"last_import":   "Last import",

		"day_totals":         "Totals per day (stored rows / chart)",
		"day_total_mismatch": "%s: stored rows sum to %d but the chart shows %d (a later record for the same day and time replaces earlier ones)",

		"file_not_found":      "File not found: %s",
		"fetch_failed":        "Failed to fetch data: %s",
		"parse_failed":        "Failed to parse data: %s",
		"invalid_record":      "Invalid record (%s): %s",
		"unsupported_source":  "Unsupported data source: %s",
		"config_invalid":      "Invalid configuration: %s",
		"render_failed":       "Failed to render chart: %s",
		"unknown_chart":       "Unknown chart: %s",
		"invalid_format":      "Unknown output format: %s",
		"store_failed":        "Storage operation failed: %s",
		"generic_error":       "An unexpected error occurred",
		"invalid_port":        "Invalid port number: %s",
		"invalid_language":    "Unsupported language: %s",
		"missing_output_path": "Specify an output path",

		"suggestion_check_file_path":   "Check the file path",
		"suggestion_check_url":         "Check that the URL is correct",
		"suggestion_check_network":     "Check your network connection",
		"suggestion_check_csv_header":  "Make sure the first CSV line is a header row (e.g. key,val)",
		"suggestion_check_json_schema": "JSON must be an array of {\"day\":1-7,\"time\":\"朝\",\"count\":0}",
		"suggestion_valid_formats":     "Valid formats: svg, png",
		"suggestion_valid_charts":      "Valid charts: pie, accidents",
		"suggestion_valid_port":        "Valid port numbers are 1-65535",
		"suggestion_valid_languages":   "Available languages: ja, en",
		"suggestion_check_credentials": "Check your AWS credentials and bucket name",
	}
}
