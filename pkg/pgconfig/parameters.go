package pgconfig

// ParamSharedPreloadLibraries is the parameter the Cluster builder
// splits out into the dedicated CNPG field.
const ParamSharedPreloadLibraries = "shared_preload_libraries"

// MultiValueParameters are the parameters whose comma-separated values
// are unioned across configuration layers instead of replaced.
var MultiValueParameters = []string{
	ParamSharedPreloadLibraries,
	"local_preload_libraries",
	"session_preload_libraries",
	"log_destination",
	"search_path",
}

// libraryPriority fixes the load order of preload libraries that care
// about their position. Listed libraries sort first in this order,
// everything else follows alphabetically.
var libraryPriority = []string{
	"citus",
	"pg_stat_statements",
	"pg_stat_kcache",
}

// DisallowedParameters are managed by the operator or by CloudNativePG
// and are dropped from every configuration layer.
var DisallowedParameters = []string{
	"allow_system_table_mods",
	"archive_cleanup_command",
	"archive_command",
	"archive_mode",
	"bonjour",
	"bonjour_name",
	"cluster_name",
	"config_file",
	"data_directory",
	"data_sync_retry",
	"event_source",
	"external_pid_file",
	"full_page_writes",
	"hba_file",
	"hot_standby",
	"ident_file",
	"jit_provider",
	"listen_addresses",
	"log_destination",
	"log_directory",
	"log_file_mode",
	"log_filename",
	"log_rotation_age",
	"log_rotation_size",
	"log_truncate_on_rotation",
	"logging_collector",
	"port",
	"primary_conninfo",
	"primary_slot_name",
	"promote_trigger_file",
	"recovery_end_command",
	"recovery_min_apply_delay",
	"recovery_target",
	"recovery_target_action",
	"recovery_target_inclusive",
	"recovery_target_lsn",
	"recovery_target_name",
	"recovery_target_time",
	"recovery_target_timeline",
	"recovery_target_xid",
	"restart_after_crash",
	"restore_command",
	"ssl",
	"ssl_ca_file",
	"ssl_cert_file",
	"ssl_ciphers",
	"ssl_crl_file",
	"ssl_dh_params_file",
	"ssl_ecdh_curve",
	"ssl_key_file",
	"ssl_max_protocol_version",
	"ssl_passphrase_command",
	"ssl_passphrase_command_supports_reload",
	"ssl_prefer_server_ciphers",
	"stats_temp_directory",
	"synchronous_standby_names",
	"syslog_facility",
	"syslog_ident",
	"syslog_sequence_numbers",
	"syslog_split_messages",
	"unix_socket_directories",
	"unix_socket_group",
	"unix_socket_permissions",
	"wal_level",
	"wal_log_hints",
}
