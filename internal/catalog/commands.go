// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package catalog

// builtin is the command set understood by HS100/HS110 firmware.
// Entries are grouped by the JSON module they address.
var builtin = []Command{
	// system
	ro("GET_SYSTEM_INFO", `{"system":{"get_sysinfo":null}}`),
	rw("REBOOT", `{"system":{"reboot":{"delay":1}}}`),
	rw("FACTORY_RESET", `{"system":{"reset":{"delay":1}}}`),
	rw("PLUG_ON", `{"system":{"set_relay_state":{"state":1}}}`),
	rw("PLUG_OFF", `{"system":{"set_relay_state":{"state":0}}}`),
	rw("LED_ON", `{"system":{"set_led_off":{"off":0}}}`),
	rw("LED_OFF", `{"system":{"set_led_off":{"off":1}}}`),
	rw("SET_DEVICE_ALIAS", `{"system":{"set_dev_alias":{"alias":"${deviceAlias}"}}}`),
	rw("SET_MAC_ADDRESS", `{"system":{"set_mac_addr":{"mac":"${macAddress}"}}}`),
	rw("SET_DEVICE_ID", `{"system":{"set_device_id":{"deviceId":"${deviceId}"}}}`),
	rw("SET_HARDWARE_ID", `{"system":{"set_hw_id":{"hwId":"${hardwareId}"}}}`),
	rw("SET_LOCATION", `{"system":{"set_dev_location":{"longitude":${longitude},"latitude":${latitude}}}}`),
	ro("CHECK_BOOTLOADER", `{"system":{"test_check_uboot":null}}`),
	ro("GET_DEVICE_ICON", `{"system":{"get_dev_icon":null}}`),
	rw("SET_DEVICE_ICON", `{"system":{"set_dev_icon":{"icon":"xxxx","hash":"ABCD"}}}`),
	// only honoured when sent from 192.168.1.100
	rw("SET_TEST_MODE", `{"system":{"set_test_mode":{"enable":1}}}`),
	rw("DOWNLOAD_FIRMWARE", `{"system":{"download_firmware":{"url":"${url}"}}}`),
	rw("GET_FIRMWARE_DOWNLOAD_STATE", `{"system":{"get_download_state":{}}}`),
	rw("FLASH_FIRMWARE", `{"system":{"flash_firmware":{}}}`),
	rw("CHECK_CONFIG", `{"system":{"check_new_config":null}}`),

	// netif
	rw("SCAN_APS", `{"netif":{"get_scaninfo":{"refresh":1}}}`),
	rw("CONNECT_TO_AP", `{"netif":{"set_stainfo":{"ssid":"${ssid}","password":"${password}","key_type":3}}}`),

	// cnCloud
	ro("GET_CLOUD_INFO", `{"cnCloud":{"get_info":null}}`),
	ro("GET_FIRMWARE_LIST", `{"cnCloud":{"get_intl_fw_list":{}}}`),
	rw("SET_CLOUD_SERVER_URL", `{"cnCloud":{"set_server_url":{"server":"${cloudServerName}"}}}`),
	rw("CONNECT_TO_CLOUD_SERVER", `{"cnCloud":{"bind":{"username":"${email}", "password":"${password}"}}}`),
	rw("UNREGISTER_FROM_CLOUD", `{"cnCloud":{"unbind":null}}`),

	// time
	ro("GET_TIME", `{"time":{"get_time":null}}`),
	ro("GET_TIMEZONE", `{"time":{"get_timezone":null}}`),
	rw("SET_TIMEZONE", `{"time":{"set_timezone":{"year":2016,"month":1,"mday":1,"hour":10,"min":10,"sec":10,"index":42}}}`),

	// emeter
	ro("GET_CURRENT_AND_VOLTAGE", `{"emeter":{"get_realtime":{}}}`),
	ro("GET_VGAIN_AND_IGAIN", `{"emeter":{"get_vgain_igain":{}}}`),
	rw("SET_VGAIN_AND_IGAIN", `{"emeter":{"set_vgain_igain":{"vgain":13462,"igain":16835}}}`),
	rw("CALIBRATE_EMETER", `{"emeter":{"start_calibration":{"vtarget":13462,"itarget":16835}}}`),
	ro("GET_EMETER_DAILY", `{"emeter":{"get_daystat":{"month":1,"year":2016}}}`),
	ro("GET_EMETER_MONTHLY", `{"emeter":{"get_daystat":{"month":1,"year":2016}}}`),
	ro("GET_EMETER_YEARLY", `{"emeter":{"get_monthstat":{"year":2016}}}`),
	rw("RESET_EMETER_STATS", `{"emeter":{"erase_emeter_stat":null}}`),

	// schedule
	ro("GET_NEXT_SCHEDULE_ACTION", `{"schedule":{"get_next_action":null}}`),
	ro("GET_SCHEDULE_RULES", `{"schedule":{"get_rules":null}}`),
	rw("ADD_SCHEDULE_RULE", `{"schedule":{"add_rule":{"stime_opt":0,"wday":[1,0,0,1,1,0,0],"smin":1014,"enable":1,"repeat":1,"etime_opt":-1,"name":"lights on","eact":-1,"month":0,"sact":1,"year":0,"longitude":0,"day":0,"force":0,"latitude":0,"emin":0},"set_overall_enable":{"enable":1}}}`),
	rw("EDIT_SCHEDULE_RULE", `{"schedule":{"edit_rule":{"stime_opt":0,"wday":[1,0,0,1,1,0,0],"smin":1014,"enable":1,"repeat":1,"etime_opt":-1,"id":"4B44932DFC09780B554A740BC1798CBC","name":"lights on","eact":-1,"month":0,"sact":1,"year":0,"longitude":0,"day":0,"force":0,"latitude":0,"emin":0}}}`),
	rw("DELETE_SCHEDULE_RULE", `{"schedule":{"delete_rule":{"id":"4B44932DFC09780B554A740BC1798CBC"}}}`),
	rw("DELETE_ALL_SCHEDULE_RULES_AND_STATISTICS", `{"schedule":{"delete_all_rules":null,"erase_runtime_stat":null}}`),

	// count_down
	ro("GET_COUNTDOWN_RULE", `{"count_down":{"get_rules":null}}`),
	rw("ADD_COUNTDOWN_RULE", `{"count_down":{"add_rule":{"enable":1,"delay":1800,"act":1,"name":"turn on"}}}`),
	rw("EDIT_COUNTDOWN_RULE", `{"count_down":{"edit_rule":{"enable":1,"id":"7C90311A1CD3227F25C6001D88F7FC13","delay":1800,"act":1,"name":"turn on"}}}`),
	rw("DELETE_COUNTDOWN_RULE", `{"count_down":{"delete_rule":{"id":"7C90311A1CD3227F25C6001D88F7FC13"}}}`),
	rw("DELETE_ALL_COUNTDOWN_RULES", `{"count_down":{"delete_all_rules":null}}`),

	// anti_theft: random on/off periods to make the house look occupied
	ro("GET_ANTITHEFT_RULES", `{"anti_theft":{"get_rules":null}}`),
	rw("ADD_ANTITHEFT_RULE", `{"anti_theft":{"add_rule":{"stime_opt":0,"wday":[0,0,0,1,0,1,0],"smin":987,"enable":1,"frequency":5,"repeat":1,"etime_opt":0,"duration":2,"name":"test","lastfor":1,"month":0,"year":0,"longitude":0,"day":0,"latitude":0,"force":0,"emin":1047},"set_overall_enable":1}}`),
	rw("EDIT_ANTITHEFT_RULE", `{"anti_theft":{"edit_rule":{"stime_opt":0,"wday":[0,0,0,1,0,1,0],"smin":987,"enable":1,"frequency":5,"repeat":1,"etime_opt":0,"id":"E36B1F4466B135C1FD481F0B4BFC9C30","duration":2,"name":"test","lastfor":1,"month":0,"year":0,"longitude":0,"day":0,"latitude":0,"force":0,"emin":1047},"set_overall_enable":1}}`),
	rw("DELETE_ANTITHEFT_RULE", `{"anti_theft":{"delete_rule":{"id":"E36B1F4466B135C1FD481F0B4BFC9C30"}}}`),
	rw("DELETE_ALL_ANTITHEFT_RULES", `{"anti_theft":{"delete_all_rules":null}}`),
}

func ro(id ID, tpl string) Command { return Command{ID: id, Template: tpl, MutatesState: false} }
func rw(id ID, tpl string) Command { return Command{ID: id, Template: tpl, MutatesState: true} }
